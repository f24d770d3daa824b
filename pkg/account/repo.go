package account

import (
	"context"
	"database/sql"
	"fmt"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{
		db: db,
	}
}

func (ar *AccountRepo) GetAccounts(ctx context.Context, userID string) ([]*Account, error) {
	rows, err := ar.db.QueryContext(ctx,
		`SELECT id::text, name, type, currency, balance, number, created_at
		FROM accounts WHERE user_id::text=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("account/repo: query failed, %w", err)
	}
	defer rows.Close()

	accounts := []*Account{}
	for rows.Next() {
		a := &Account{UserID: userID}
		var typ string
		if err := rows.Scan(&a.ID, &a.Name, &typ, &a.Currency, &a.Balance, &a.Number, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("account/repo: scan account row failed, %w", err)
		}
		a.Type = Type(typ)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("account/repo: rows iteration failed, %w", err)
	}
	return accounts, nil
}

func (ar *AccountRepo) AddAccount(ctx context.Context, a *Account) (string, error) {
	var id string
	err := ar.db.QueryRowContext(ctx,
		`INSERT INTO accounts(user_id, name, type, currency, balance, number)
		VALUES($1, $2, $3, $4, $5, $6) RETURNING id::text`,
		a.UserID, a.Name, string(a.Type), a.Currency, a.Balance, a.Number).Scan(&id)
	if err != nil {
		return ``, fmt.Errorf("account/repo: failed inserting account, %w", err)
	}
	return id, nil
}

func (ar *AccountRepo) Owns(ctx context.Context, userID, accountID string) (bool, error) {
	var exists bool
	err := ar.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE id::text=$1 AND user_id::text=$2)",
		accountID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("account/repo: can't check account `%s`, %w", accountID, err)
	}
	return exists, nil
}
