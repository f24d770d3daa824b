package transaction

import (
	"strings"
	"time"
)

type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

type Status string

const (
	Completed Status = "completed"
	Pending   Status = "pending"
)

type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	AccountID   string    `json:"account_id,omitempty"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Merchant    string    `json:"merchant"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
}

// NewTransaction is the quick-add form.
type NewTransaction struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Type        Type    `json:"type"`
	AccountID   string  `json:"account_id,omitempty"`
	Merchant    string  `json:"merchant,omitempty"`
}

type Summary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
	Count    int     `json:"count"`
}

// Filter narrows a listing. Zero fields match everything; To is exclusive.
type Filter struct {
	Search   string
	Category string
	Type     Type
	From     time.Time
	To       time.Time
}

func (f Filter) Match(t *Transaction) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.Merchant), q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(f.Category, t.Category) {
		return false
	}
	if f.Type != "" && f.Type != t.Type {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Date.Before(f.To) {
		return false
	}
	return true
}
