package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/amiskov/spendahead/pkg/metrics"
)

const DefaultCookieName = "auth_token"

type ManagerConfig struct {
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
	Metrics      *metrics.Metrics
}

// Manager issues and revokes sessions. Reading a cookie on the request
// path is the Validator's job and does not go through the Manager.
type Manager struct {
	codec  Codec
	repo   Repo
	config ManagerConfig
	now    func() time.Time
}

func NewManager(codec Codec, repo Repo, cfg ManagerConfig) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if codec == nil {
		codec = PlainCodec{}
	}
	return &Manager{
		codec:  codec,
		repo:   repo,
		config: cfg,
		now:    time.Now,
	}
}

// Create records a new session for userID and returns the encoded cookie
// value. user is the payload shown to the frontend.
func (m *Manager) Create(ctx context.Context, userID string, user any) (string, *Session, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return ``, nil, fmt.Errorf("session/manager: can't marshal user payload, %w", err)
	}

	expiresAt := m.now().Add(m.config.TTL)
	s := &Session{
		Token:     uuid.NewString(),
		ExpiresAt: expiresAt.UnixMilli(),
		User:      payload,
	}

	value, err := m.codec.Encode(s)
	if err != nil {
		return ``, nil, err
	}

	rec := &Record{Token: s.Token, UserID: userID, ExpiresAt: expiresAt}
	if err := m.repo.Add(ctx, rec); err != nil {
		return ``, nil, fmt.Errorf("session/manager: can't add session to repo, %w", err)
	}
	m.config.Metrics.SessionEvent("created")

	return value, s, nil
}

// Check looks the session up in the repo, so revoked sessions are refused
// even while their cookie is still unexpired.
func (m *Manager) Check(ctx context.Context, s *Session) (*Record, error) {
	rec, err := m.repo.Get(ctx, s.Token)
	if err != nil {
		m.config.Metrics.SessionEvent("rejected")
		return nil, fmt.Errorf("session/manager: session is not valid, %w", err)
	}
	return rec, nil
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	if err := m.repo.Destroy(ctx, token); err != nil {
		return fmt.Errorf("session/manager: failed destroying session, %w", err)
	}
	m.config.Metrics.SessionEvent("destroyed")
	return nil
}

func (m *Manager) DestroyAll(ctx context.Context, userID string) error {
	if err := m.repo.DestroyAll(ctx, userID); err != nil {
		return fmt.Errorf("session/manager: failed destroying user sessions, %w", err)
	}
	return nil
}

func (m *Manager) CookieName() string {
	return m.config.CookieName
}

func (m *Manager) Cookie(value string, s *Session) *http.Cookie {
	return &http.Cookie{
		Name:     m.config.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.UnixMilli(s.ExpiresAt),
		HttpOnly: true,
		Secure:   m.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
