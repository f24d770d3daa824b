package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/amiskov/spendahead/pkg/session"
)

type Config struct {
	RunAddress    string
	DatabaseURI   string
	RedisAddress  string
	SessionStore  string
	LogLevel      string
	SecretKey     string
	SessionCookie string
	SessionTTL    time.Duration
	SessionMax    int
	SecureCookie  bool
	RoutesFile    string
	StaticDir     string
}

// Parse reads .env when present, then flags, then the environment. Later
// sources win.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: can't load .env, %w", err)
	}
	return parse(flag.CommandLine, os.Args[1:], os.LookupEnv)
}

func defaults() Config {
	return Config{
		RunAddress:    "localhost:8080",
		SessionStore:  session.StoreMemory,
		LogLevel:      "info",
		SessionCookie: session.DefaultCookieName,
		SessionTTL:    24 * time.Hour,
		SessionMax:    100000,
	}
}

func parse(fset *flag.FlagSet, args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := defaults()
	if err := cfg.updateFromFlags(fset, args); err != nil {
		return nil, err
	}
	if err := cfg.updateFromEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) updateFromFlags(fset *flag.FlagSet, args []string) error {
	flagRunAddress := fset.String("a", cfg.RunAddress, "Server address.")
	flagDatabaseURI := fset.String("d", cfg.DatabaseURI, "Postgres DSN.")
	flagRedisAddress := fset.String("r", cfg.RedisAddress, "Redis address.")
	flagRoutesFile := fset.String("routes", cfg.RoutesFile, "YAML routes file.")

	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("config: can't parse flags, %w", err)
	}

	cfg.RunAddress = *flagRunAddress
	cfg.DatabaseURI = *flagDatabaseURI
	cfg.RedisAddress = *flagRedisAddress
	cfg.RoutesFile = *flagRoutesFile
	return nil
}

func (cfg *Config) updateFromEnv(lookup func(string) (string, bool)) error {
	if addr, ok := lookup("RUN_ADDRESS"); ok {
		cfg.RunAddress = addr
	}
	if db, ok := lookup("DATABASE_URI"); ok {
		cfg.DatabaseURI = db
	}
	if addr, ok := lookup("REDIS_ADDRESS"); ok {
		cfg.RedisAddress = addr
	}
	if store, ok := lookup("SESSION_STORE"); ok {
		cfg.SessionStore = store
	}
	if lvl, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = lvl
	}
	if secret, ok := lookup("SECRET_KEY"); ok {
		cfg.SecretKey = secret
	}
	if name, ok := lookup("SESSION_COOKIE"); ok {
		cfg.SessionCookie = name
	}
	if ttl, ok := lookup("SESSION_TTL"); ok {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("config: bad SESSION_TTL `%s`, %w", ttl, err)
		}
		cfg.SessionTTL = d
	}
	if limit, ok := lookup("SESSION_MAX"); ok {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("config: bad SESSION_MAX `%s`, %w", limit, err)
		}
		cfg.SessionMax = n
	}
	if secure, ok := lookup("SECURE_COOKIE"); ok {
		b, err := strconv.ParseBool(secure)
		if err != nil {
			return fmt.Errorf("config: bad SECURE_COOKIE `%s`, %w", secure, err)
		}
		cfg.SecureCookie = b
	}
	if path, ok := lookup("ROUTES_FILE"); ok {
		cfg.RoutesFile = path
	}
	if dir, ok := lookup("STATIC_DIR"); ok {
		cfg.StaticDir = dir
	}
	return nil
}

func (cfg *Config) validate() error {
	switch cfg.SessionStore {
	case session.StoreMemory:
	case session.StoreRedis:
		if cfg.RedisAddress == "" {
			return errors.New("config: redis session store needs REDIS_ADDRESS")
		}
	case session.StorePostgres:
		if cfg.DatabaseURI == "" {
			return errors.New("config: postgres session store needs DATABASE_URI")
		}
	default:
		return fmt.Errorf("config: unknown session store `%s`", cfg.SessionStore)
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if cfg.SessionMax < 0 {
		return errors.New("config: SESSION_MAX must not be negative")
	}
	if cfg.SessionCookie == "" {
		return errors.New("config: SESSION_COOKIE must not be empty")
	}
	return nil
}
