package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRepo(client *redis.Client, prefix string) *RedisRepo {
	if prefix == "" {
		prefix = "spendahead:"
	}
	return &RedisRepo{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *RedisRepo) sessionKey(token string) string { return r.prefix + "session:" + token }
func (r *RedisRepo) userKey(userID string) string   { return r.prefix + "user_sessions:" + userID }

type redisRecord struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r *RedisRepo) Add(ctx context.Context, rec *Record) error {
	ttl := rec.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session/redis: record for user `%s` is already expired", rec.UserID)
	}

	data, err := json.Marshal(redisRecord{UserID: rec.UserID, ExpiresAt: rec.ExpiresAt})
	if err != nil {
		return fmt.Errorf("session/redis: can't marshal record, %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.sessionKey(rec.Token), data, ttl)
	pipe.SAdd(ctx, r.userKey(rec.UserID), rec.Token)
	pipe.Expire(ctx, r.userKey(rec.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session/redis: failed saving session, %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, token string) (*Record, error) {
	data, err := r.client.Get(ctx, r.sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, fmt.Errorf("session/redis: failed getting session, %w", err)
	}

	var rr redisRecord
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, fmt.Errorf("session/redis: corrupt session record, %w", err)
	}
	return &Record{Token: token, UserID: rr.UserID, ExpiresAt: rr.ExpiresAt}, nil
}

func (r *RedisRepo) Destroy(ctx context.Context, token string) error {
	rec, err := r.Get(ctx, token)
	if errors.Is(err, ErrNoAuth) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.sessionKey(token))
	pipe.SRem(ctx, r.userKey(rec.UserID), token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session/redis: failed destroying session, %w", err)
	}
	return nil
}

func (r *RedisRepo) DestroyAll(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("session/redis: failed listing user sessions, %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, r.sessionKey(token))
	}
	keys = append(keys, r.userKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session/redis: failed destroying user sessions, %w", err)
	}
	return nil
}
