package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search string into a substring ILIKE pattern that
// matches % and _ literally.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

type Repo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context, userID string, f Filter) ([]*Transaction, error) {
	q := `SELECT id::text, COALESCE(account_id::text, ''), date, description, merchant, category, amount, type, status
		FROM transactions WHERE user_id::text=$1`
	args := []any{userID}

	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		q += fmt.Sprintf(` AND (description ILIKE $%d ESCAPE '\' OR merchant ILIKE $%d ESCAPE '\')`, len(args), len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		q += fmt.Sprintf(" AND lower(category)=lower($%d)", len(args))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		q += fmt.Sprintf(" AND type=$%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		q += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		q += fmt.Sprintf(" AND date < $%d", len(args))
	}
	q += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("transaction/repo: query failed, %w", err)
	}
	defer rows.Close()

	txs := []*Transaction{}
	for rows.Next() {
		t := &Transaction{UserID: userID}
		var typ, status string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Date, &t.Description, &t.Merchant,
			&t.Category, &t.Amount, &typ, &status); err != nil {
			return nil, fmt.Errorf("transaction/repo: scan transaction row failed, %w", err)
		}
		t.Type, t.Status = Type(typ), Status(status)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transaction/repo: rows iteration failed, %w", err)
	}
	return txs, nil
}

func (r *Repo) Add(ctx context.Context, t *Transaction) (string, error) {
	accountID := sql.NullString{String: t.AccountID, Valid: t.AccountID != ""}

	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions(user_id, account_id, date, description, merchant, category, amount, type, status)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id::text`,
		t.UserID, accountID, t.Date, t.Description, t.Merchant, t.Category, t.Amount,
		string(t.Type), string(t.Status)).Scan(&id)
	if err != nil {
		return ``, fmt.Errorf("transaction/repo: failed inserting transaction, %w", err)
	}
	return id, nil
}
