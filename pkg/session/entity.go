package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Session is the client-held session blob stored in the auth cookie.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expiresAt"` // epoch millis
	User      json.RawMessage `json:"user"`
}

// Expired reports whether now is strictly past ExpiresAt.
func (s *Session) Expired(now time.Time) bool {
	return now.UnixMilli() > s.ExpiresAt
}

// Record is the server-side trace of an issued session, used for logout
// and revocation.
type Record struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

type sessionKey string

const SessionKey sessionKey = "authenticatedSession"

// ErrInvalid is the single failure class of session reading. The wrapped
// variants below only make logs more useful.
var ErrInvalid = errors.New("session: invalid")

var (
	ErrMissing    = fmt.Errorf("%w: missing", ErrInvalid)
	ErrMalformed  = fmt.Errorf("%w: malformed", ErrInvalid)
	ErrIncomplete = fmt.Errorf("%w: required field missing", ErrInvalid)
	ErrExpired    = fmt.Errorf("%w: expired", ErrInvalid)
	ErrSignature  = fmt.Errorf("%w: bad signature", ErrInvalid)
)

var ErrNoAuth = errors.New("session: no session found")

func ContextWithSession(ctx context.Context, rec *Record) context.Context {
	return context.WithValue(ctx, SessionKey, rec)
}

func GetAuthUserID(ctx context.Context) (string, error) {
	rec, ok := ctx.Value(SessionKey).(*Record)
	if !ok || rec == nil {
		return ``, ErrNoAuth
	}
	return rec.UserID, nil
}

func GetAuthSessionID(ctx context.Context) (string, error) {
	rec, ok := ctx.Value(SessionKey).(*Record)
	if !ok || rec == nil {
		return ``, ErrNoAuth
	}
	return rec.Token, nil
}
