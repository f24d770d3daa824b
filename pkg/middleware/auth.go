package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/amiskov/spendahead/pkg/common"
	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/session"
	"github.com/amiskov/spendahead/pkg/user"
)

type (
	IUserRepo interface {
		GetByID(context.Context, string) (*user.User, error)
	}
	ISessionManager interface {
		CookieName() string
		Check(context.Context, *session.Session) (*session.Record, error)
	}
	// Auth guards the JSON API. Unlike the page guard it answers 401
	// instead of redirecting and refuses revoked sessions.
	Auth struct {
		UserRepo       IUserRepo
		SessionManager ISessionManager
		Validator      *session.Validator
		noAuthUrls     map[string]struct{}
	}
)

func NewAuthMiddleware(sm ISessionManager, v *session.Validator, ur IUserRepo, noAuthUrls map[string]struct{}) *Auth {
	return &Auth{
		UserRepo:       ur,
		SessionManager: sm,
		Validator:      v,
		noAuthUrls:     noAuthUrls,
	}
}

func (auth Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.noAuthUrls[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		raw, present := sessionCookie(r, auth.SessionManager.CookieName())
		sess, ok := auth.Validator.Validate(raw, present).Session()
		if !ok {
			common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
			return
		}

		repoCtx, repoCtxCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer repoCtxCancel()

		rec, err := auth.SessionManager.Check(repoCtx, sess)
		if err != nil {
			logger.Log(r.Context()).Infof("auth: session rejected, %v", err)
			common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
			return
		}

		if _, err := auth.UserRepo.GetByID(repoCtx, rec.UserID); err != nil {
			logger.Log(r.Context()).Errorf("auth: can't get the user from repo, %v", err)
			common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
			return
		}

		ctx := session.ContextWithSession(r.Context(), rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
