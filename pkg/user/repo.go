package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

func (r *UserRepo) Add(ctx context.Context, u *User) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users(login, password) VALUES($1, $2) RETURNING id::text",
		u.Login, u.Password).Scan(&userID)
	if err != nil {
		return ``, fmt.Errorf("user/repo: failed insert user, %w", err)
	}
	return userID, nil
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id::text, login, password, created_at FROM users WHERE login=$1", login)
	u := new(User)
	err := row.Scan(&u.ID, &u.Login, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user/repo: row scan failed, %w", err)
	}
	return u, nil
}

func (r *UserRepo) UserExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE login=$1)", login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user/repo: can't check user `%s`, %w", login, err)
	}
	return exists, nil
}

func (r *UserRepo) GetByID(ctx context.Context, uid string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id::text, login, password, created_at FROM users WHERE id::text=$1", uid)
	u := new(User)
	err := row.Scan(&u.ID, &u.Login, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user/repo: could not scan row, %w", err)
	}
	return u, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, uid string, hash []byte) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET password=$2 WHERE id::text=$1", uid, hash)
	if err != nil {
		return fmt.Errorf("user/repo: can't update password of `%s`, %w", uid, err)
	}
	return affectedOne(res)
}

// Delete removes the user; accounts and transactions go with it by cascade.
func (r *UserRepo) Delete(ctx context.Context, uid string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id::text=$1", uid)
	if err != nil {
		return fmt.Errorf("user/repo: can't delete user `%s`, %w", uid, err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user/repo: can't get affected rows, %w", err)
	}
	if n == 0 {
		return errUserNotFound
	}
	return nil
}
