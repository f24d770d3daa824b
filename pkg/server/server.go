// Package server wires repositories, services and middleware into the
// gateway's HTTP handler.
package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amiskov/spendahead/pkg/account"
	"github.com/amiskov/spendahead/pkg/config"
	"github.com/amiskov/spendahead/pkg/health"
	"github.com/amiskov/spendahead/pkg/metrics"
	"github.com/amiskov/spendahead/pkg/middleware"
	"github.com/amiskov/spendahead/pkg/page"
	"github.com/amiskov/spendahead/pkg/route"
	"github.com/amiskov/spendahead/pkg/session"
	"github.com/amiskov/spendahead/pkg/transaction"
	"github.com/amiskov/spendahead/pkg/user"
)

const Version = "0.1.0"

// Deps are the process-level resources. DB and Redis are optional; without
// a DB every repository lives in memory.
type Deps struct {
	Config *config.Config
	Routes *config.Routes
	DB     *sql.DB
	Redis  *redis.Client
	Log    *zap.SugaredLogger
}

type Server struct {
	Handler  http.Handler
	Sessions session.Repo
	Metrics  *metrics.Metrics
}

func NewCodec(secret string, log *zap.SugaredLogger) session.Codec {
	if secret == "" {
		log.Warn("server: SECRET_KEY is not set, session cookies are accepted unsigned and can be forged by clients")
		return session.PlainCodec{}
	}
	return session.NewSignedCodec(secret)
}

func New(d Deps) (*Server, error) {
	cfg := d.Config
	routes := d.Routes
	if routes == nil {
		routes = config.DefaultRoutes()
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	m := metrics.New()

	sessionRepo, err := session.NewRepo(cfg.SessionStore, d.DB, d.Redis, cfg.SessionMax)
	if err != nil {
		return nil, err
	}
	codec := NewCodec(cfg.SecretKey, log)
	sessionManager := session.NewManager(codec, sessionRepo, session.ManagerConfig{
		CookieName:   cfg.SessionCookie,
		TTL:          cfg.SessionTTL,
		SecureCookie: cfg.SecureCookie,
		Metrics:      m,
	})
	validator := session.NewValidator(codec)

	var (
		usersRepo        user.IRepo
		transactionsRepo transaction.IRepo
		accountsRepo     account.IAccountRepo
	)
	if d.DB != nil {
		usersRepo = user.NewUserRepo(d.DB)
		transactionsRepo = transaction.NewTransactionRepo(d.DB)
		accountsRepo = account.NewAccountRepo(d.DB)
	} else {
		usersRepo = user.NewMemoryRepo()
		transactionsRepo = transaction.NewMemoryRepo()
		accountsRepo = account.NewMemoryRepo()
	}

	userService := user.NewService(usersRepo, sessionManager,
		user.WithResetTokens(user.NewResetTokens(cfg.SecretKey, user.DefaultResetTTL)))
	userHandler := user.NewHandler(userService, sessionManager)
	transactionHandler := transaction.NewTransactionHandler(transaction.NewService(transactionsRepo, accountsRepo))
	accountHandler := account.NewAccountHandler(account.NewService(accountsRepo))

	checks := map[string]health.Checker{}
	if d.DB != nil {
		checks["database"] = d.DB.PingContext
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	healthHandler := health.NewHandler(Version, checks)

	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	// Health
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")
	api.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")
	api.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	api.HandleFunc("/health/live", healthHandler.Live).Methods("GET")

	// User
	api.HandleFunc("/user/register", userHandler.Register).Methods("POST")
	api.HandleFunc("/user/login", userHandler.LogIn).Methods("POST")
	api.HandleFunc("/user/logout", userHandler.LogOut).Methods("POST")
	api.HandleFunc("/user/me", userHandler.Me).Methods("GET")
	api.HandleFunc("/user/me", userHandler.DeleteMe).Methods("DELETE")
	api.HandleFunc("/user/password-reset", userHandler.PasswordReset).Methods("POST")
	api.HandleFunc("/user/password-reset/confirm", userHandler.ConfirmPasswordReset).Methods("POST")

	// Transactions
	api.HandleFunc("/transactions", transactionHandler.List).Methods("GET")
	api.HandleFunc("/transactions", transactionHandler.Add).Methods("POST")
	api.HandleFunc("/transactions/summary", transactionHandler.Summary).Methods("GET")

	// Accounts
	api.HandleFunc("/accounts", accountHandler.GetAccountsList).Methods("GET")
	api.HandleFunc("/accounts", accountHandler.AddAccount).Methods("POST")

	noAuthUrls := map[string]struct{}{
		"/api/user/register":               {},
		"/api/user/login":                  {},
		"/api/user/password-reset":         {},
		"/api/user/password-reset/confirm": {},
		"/api/health":                      {},
		"/api/health/detailed":             {},
		"/api/health/ready":                {},
		"/api/health/live":                 {},
	}
	auth := middleware.NewAuthMiddleware(sessionManager, validator, usersRepo, noAuthUrls)
	api.Use(auth.Middleware)

	r.Handle("/metrics", m.Handler()).Methods("GET")

	pages := append(append([]string{}, routes.Protected...), routes.PublicAuth...)
	r.PathPrefix("/").Handler(page.NewHandler(cfg.StaticDir, pages))

	// The guard and logging wrap the router itself: mux only runs its own
	// middleware for matched routes.
	guard := middleware.NewGuard(validator, route.NewClassifier(routes.Rules()), middleware.GuardConfig{
		CookieName: cfg.SessionCookie,
		Paths:      routes.Paths,
		Exclusions: routes.Exclusions,
		Metrics:    m,
	})
	logMiddleware := middleware.NewLoggingMiddleware(log)
	var h http.Handler = guard.Middleware(r)
	h = logMiddleware.AccessLog(h)
	h = logMiddleware.SetupLogging(h)
	h = logMiddleware.SetupTracing(h)

	return &Server{
		Handler:  h,
		Sessions: sessionRepo,
		Metrics:  m,
	}, nil
}
