package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Repo interface {
	Add(ctx context.Context, rec *Record) error
	// Get returns ErrNoAuth when the token is unknown or expired.
	Get(ctx context.Context, token string) (*Record, error)
	Destroy(ctx context.Context, token string) error
	DestroyAll(ctx context.Context, userID string) error
}

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// NewRepo picks the session repo by kind. db and rdb may be nil unless
// their kind is requested. maxSessions only bounds the memory store.
func NewRepo(kind string, db *sql.DB, rdb *redis.Client, maxSessions int) (Repo, error) {
	switch kind {
	case "", StoreMemory:
		return NewMemoryRepo(maxSessions), nil
	case StoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("session: redis store requested without a redis client")
		}
		return NewRedisRepo(rdb, ""), nil
	case StorePostgres:
		if db == nil {
			return nil, fmt.Errorf("session: postgres store requested without a database")
		}
		return NewPostgresRepo(db), nil
	default:
		return nil, fmt.Errorf("session: invalid store type %q", kind)
	}
}
