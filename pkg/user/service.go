package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amiskov/spendahead/pkg/common"
	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/session"
)

type IRepo interface {
	UserExists(ctx context.Context, login string) (bool, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Add(ctx context.Context, u *User) (string, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error
	Delete(ctx context.Context, id string) error
}

type ISessionManager interface {
	Create(ctx context.Context, userID string, payload any) (string, *session.Session, error)
	Destroy(ctx context.Context, token string) error
	DestroyAll(ctx context.Context, userID string) error
}

type service struct {
	repo     IRepo
	sm       ISessionManager
	resets   *ResetTokens
	notifier ResetNotifier
}

var (
	errUserAlreadyExists  = errors.New("user already exists")
	errUserNotFound       = errors.New("user not found")
	errInvalidCredentials = errors.New("invalid credentials")
	errBadInput           = errors.New("login and password are required")
	errBadPassword        = errors.New("new password is required")
)

type ServiceOption func(*service)

func WithResetTokens(rt *ResetTokens) ServiceOption {
	return func(s *service) {
		s.resets = rt
	}
}

func WithResetNotifier(n ResetNotifier) ServiceOption {
	return func(s *service) {
		s.notifier = n
	}
}

func NewService(r IRepo, sm ISessionManager, opts ...ServiceOption) *service {
	s := &service{
		repo:     r,
		sm:       sm,
		resets:   NewResetTokens("", DefaultResetTTL),
		notifier: LogNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issued is a freshly created session ready to be set as a cookie.
type Issued struct {
	Value   string
	Session *session.Session
	User    Public
}

func (s *service) RegUser(ctx context.Context, login, password string) (*Issued, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, errBadInput
	}

	userExists, err := s.repo.UserExists(ctx, login)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't check user existence, %v", err)
		return nil, err
	}
	if userExists {
		return nil, fmt.Errorf("can't add `%s`, %w", login, errUserAlreadyExists)
	}

	usr := &User{
		Login:    login,
		Password: common.HashPass(password, common.RandStringRunes(common.SaltLen)),
	}
	id, err := s.repo.Add(ctx, usr)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't add user to DB, %v", err)
		return nil, err
	}
	usr.ID = id

	return s.issue(ctx, usr)
}

func (s *service) LoginUser(ctx context.Context, login, password string) (*Issued, error) {
	usr, err := s.repo.GetByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, errUserNotFound) {
		return nil, fmt.Errorf("can't log in `%s`, %w", login, errInvalidCredentials)
	}
	if err != nil {
		logger.Log(ctx).Errorf("user: can't get the user by login `%s`, %v", login, err)
		return nil, err
	}

	if !common.CheckPass(password, usr.Password) {
		return nil, fmt.Errorf("can't log in `%s`, %w", login, errInvalidCredentials)
	}

	return s.issue(ctx, usr)
}

func (s *service) LogOutUser(ctx context.Context) error {
	sessionID, err := session.GetAuthSessionID(ctx)
	if err != nil {
		return err
	}
	return s.sm.Destroy(ctx, sessionID)
}

func (s *service) CurrentUser(ctx context.Context) (*Public, error) {
	userID, err := session.GetAuthUserID(ctx)
	if err != nil {
		return nil, err
	}
	usr, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pub := usr.Public()
	return &pub, nil
}

// RequestPasswordReset sends a reset token when login exists. Unknown
// logins succeed silently.
func (s *service) RequestPasswordReset(ctx context.Context, login string) error {
	usr, err := s.repo.GetByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, errUserNotFound) {
		logger.Log(ctx).Infof("user: password reset requested for unknown login `%s`", login)
		return nil
	}
	if err != nil {
		logger.Log(ctx).Errorf("user: can't get the user by login `%s`, %v", login, err)
		return err
	}

	token, err := s.resets.Issue(usr)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't issue reset token for user `%s`, %v", usr.ID, err)
		return err
	}
	if err := s.notifier.SendReset(ctx, usr.Login, token); err != nil {
		logger.Log(ctx).Errorf("user: can't send reset token to `%s`, %v", usr.Login, err)
		return err
	}
	return nil
}

// ConfirmPasswordReset sets a new password and signs the user out
// everywhere.
func (s *service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return errBadPassword
	}

	claims, err := s.resets.Verify(token)
	if err != nil {
		logger.Log(ctx).Infof("user: reset token rejected, %v", err)
		return err
	}

	usr, err := s.repo.GetByID(ctx, claims.Subject)
	if errors.Is(err, errUserNotFound) {
		return errInvalidResetToken
	}
	if err != nil {
		logger.Log(ctx).Errorf("user: can't get the user `%s`, %v", claims.Subject, err)
		return err
	}
	if claims.Fingerprint != passwordFingerprint(usr.Password) {
		return fmt.Errorf("%w: password already changed", errInvalidResetToken)
	}

	hash := common.HashPass(newPassword, common.RandStringRunes(common.SaltLen))
	if err := s.repo.UpdatePassword(ctx, usr.ID, hash); err != nil {
		logger.Log(ctx).Errorf("user: can't update password for `%s`, %v", usr.ID, err)
		return err
	}
	if err := s.sm.DestroyAll(ctx, usr.ID); err != nil {
		logger.Log(ctx).Errorf("user: can't revoke sessions for `%s`, %v", usr.ID, err)
		return err
	}
	return nil
}

// DeleteUser removes the authorized user and revokes all their sessions.
func (s *service) DeleteUser(ctx context.Context) error {
	userID, err := session.GetAuthUserID(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		logger.Log(ctx).Errorf("user: can't delete user `%s`, %v", userID, err)
		return err
	}
	if err := s.sm.DestroyAll(ctx, userID); err != nil {
		logger.Log(ctx).Errorf("user: can't revoke sessions for `%s`, %v", userID, err)
		return err
	}
	return nil
}

func (s *service) issue(ctx context.Context, usr *User) (*Issued, error) {
	pub := usr.Public()
	value, sess, err := s.sm.Create(ctx, usr.ID, pub)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't create session for user `%s`, %v", usr.ID, err)
		return nil, err
	}
	return &Issued{Value: value, Session: sess, User: pub}, nil
}
