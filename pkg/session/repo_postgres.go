package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{
		DB: db,
	}
}

func (sr *PostgresRepo) Add(ctx context.Context, rec *Record) error {
	_, err := sr.DB.ExecContext(ctx,
		`INSERT INTO sessions(session_id, user_id, expiration_date) VALUES($1, $2, $3::timestamptz)
		 ON CONFLICT (session_id) DO UPDATE SET expiration_date = EXCLUDED.expiration_date`,
		rec.Token, rec.UserID, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("session/postgres: failed insert into session %w", err)
	}
	return nil
}

func (sr *PostgresRepo) Get(ctx context.Context, token string) (*Record, error) {
	q := `SELECT session_id, user_id, expiration_date FROM sessions
	      WHERE session_id = $1 AND expiration_date > now()`
	rec := new(Record)
	err := sr.DB.QueryRowContext(ctx, q, token).Scan(&rec.Token, &rec.UserID, &rec.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, fmt.Errorf("session/postgres: failed getting session, %w", err)
	}
	return rec, nil
}

func (sr *PostgresRepo) Destroy(ctx context.Context, token string) error {
	_, err := sr.DB.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = $1", token)
	if err != nil {
		return fmt.Errorf("session/postgres: failed destroying session, %w", err)
	}
	return nil
}

func (sr *PostgresRepo) DestroyAll(ctx context.Context, userID string) error {
	_, err := sr.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("session/postgres: failed destroying user sessions, %w", err)
	}
	return nil
}
