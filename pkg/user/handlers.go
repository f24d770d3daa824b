package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/amiskov/spendahead/pkg/common"
	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/session"
)

type iService interface {
	RegUser(ctx context.Context, login, pass string) (*Issued, error)
	LoginUser(ctx context.Context, login, password string) (*Issued, error)
	LogOutUser(ctx context.Context) error
	CurrentUser(ctx context.Context) (*Public, error)
	RequestPasswordReset(ctx context.Context, login string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	DeleteUser(ctx context.Context) error
}

type iCookies interface {
	Cookie(value string, s *session.Session) *http.Cookie
	ExpiredCookie() *http.Cookie
}

type Handler struct {
	service iService
	cookies iCookies
}

func NewHandler(s iService, c iCookies) *Handler {
	return &Handler{
		service: s,
		cookies: c,
	}
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (uh Handler) Register(w http.ResponseWriter, r *http.Request) {
	creds := new(credentials)
	if err := common.ParseReqBody(r.Body, creds); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	issued, err := uh.service.RegUser(r.Context(), creds.Login, creds.Password)
	switch {
	case errors.Is(err, errBadInput):
		common.WriteMsg(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, errUserAlreadyExists):
		common.WriteMsg(w, fmt.Sprintf(`user "%s" already exists`, creds.Login), http.StatusConflict)
		return
	case err != nil:
		common.WriteMsg(w, "can't add user", http.StatusInternalServerError)
		return
	}

	uh.writeIssued(w, issued)
}

type resetRequest struct {
	Login string `json:"login"`
}

type resetConfirmation struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (uh Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	req := new(resetRequest)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as reset request: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	if err := uh.service.RequestPasswordReset(r.Context(), req.Login); err != nil {
		common.WriteMsg(w, "can't process password reset", http.StatusInternalServerError)
		return
	}
	common.WriteMsg(w, "if the account exists, a password reset token has been sent", http.StatusOK)
}

func (uh Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	req := new(resetConfirmation)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as reset confirmation: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	err := uh.service.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword)
	switch {
	case errors.Is(err, errBadPassword):
		common.WriteMsg(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, errInvalidResetToken):
		common.WriteMsg(w, errInvalidResetToken.Error(), http.StatusBadRequest)
		return
	case err != nil:
		common.WriteMsg(w, "can't reset password", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, uh.cookies.ExpiredCookie())
	common.WriteMsg(w, "password updated", http.StatusOK)
}

func (uh Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	err := uh.service.DeleteUser(r.Context())
	if errors.Is(err, session.ErrNoAuth) || errors.Is(err, errUserNotFound) {
		common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
		return
	}
	if err != nil {
		common.WriteMsg(w, "can't delete account", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, uh.cookies.ExpiredCookie())
	common.WriteMsg(w, "account deleted", http.StatusOK)
}

func (uh Handler) LogIn(w http.ResponseWriter, r *http.Request) {
	creds := new(credentials)
	if err := common.ParseReqBody(r.Body, creds); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	issued, err := uh.service.LoginUser(r.Context(), creds.Login, creds.Password)
	if errors.Is(err, errInvalidCredentials) {
		common.WriteMsg(w, "incorrect login or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		common.WriteMsg(w, "user authentication failed", http.StatusInternalServerError)
		return
	}

	uh.writeIssued(w, issued)
}

func (uh Handler) LogOut(w http.ResponseWriter, r *http.Request) {
	if err := uh.service.LogOutUser(r.Context()); err != nil {
		logger.Log(r.Context()).Errorf("user: logout failed, %v", err)
		common.WriteMsg(w, "user logout failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, uh.cookies.ExpiredCookie())
	common.WriteMsg(w, "logged out", http.StatusOK)
}

func (uh Handler) Me(w http.ResponseWriter, r *http.Request) {
	pub, err := uh.service.CurrentUser(r.Context())
	if errors.Is(err, session.ErrNoAuth) || errors.Is(err, errUserNotFound) {
		common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
		return
	}
	if err != nil {
		common.WriteMsg(w, "can't get user", http.StatusInternalServerError)
		return
	}
	common.WriteRespJSON(w, pub)
}

func (uh Handler) writeIssued(w http.ResponseWriter, issued *Issued) {
	http.SetCookie(w, uh.cookies.Cookie(issued.Value, issued.Session))
	common.WriteRespJSON(w, struct {
		User      Public `json:"user"`
		ExpiresAt int64  `json:"expiresAt"`
	}{
		User:      issued.User,
		ExpiresAt: issued.Session.ExpiresAt,
	})
}
