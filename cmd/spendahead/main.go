package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amiskov/spendahead/pkg/config"
	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/server"
	"github.com/amiskov/spendahead/pkg/session"
	"github.com/amiskov/spendahead/pkg/storage"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalln(err)
	}
	l := logger.Run(cfg.LogLevel)
	defer func() { _ = l.Sync() }()

	routes, err := config.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		l.Fatalf("main: %v", err)
	}

	var db *sql.DB
	if cfg.DatabaseURI != "" {
		db, err = storage.Open(context.Background(), cfg.DatabaseURI)
		if err != nil {
			l.Fatalf("main: %v", err)
		}
		defer db.Close()
	}

	var rdb *redis.Client
	if cfg.RedisAddress != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			l.Fatalf("main: unable to reach redis, %v", err)
		}
	}

	srv, err := server.New(server.Deps{
		Config: cfg,
		Routes: routes,
		DB:     db,
		Redis:  rdb,
		Log:    l,
	})
	if err != nil {
		l.Fatalf("main: can't build server, %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mr, ok := srv.Sessions.(*session.MemoryRepo); ok {
		go cleanupSessions(ctx, mr, time.Minute)
	}

	httpServer := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		l.Infof("Serving at http://%s/ (session store: %s)", cfg.RunAddress, cfg.SessionStore)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalf("main: server failed, %v", err)
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("main: graceful shutdown failed, %v", err)
	}
}

func cleanupSessions(ctx context.Context, repo *session.MemoryRepo, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			repo.Cleanup()
		}
	}
}
