package account

import "time"

type Type string

const (
	Bank       Type = "bank"
	CreditCard Type = "credit_card"
	Cash       Type = "cash"
	Investment Type = "investment"
)

func (t Type) Valid() bool {
	switch t {
	case Bank, CreditCard, Cash, Investment:
		return true
	}
	return false
}

type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Currency  string    `json:"currency"`
	Balance   float64   `json:"balance"`
	Number    string    `json:"number,omitempty"` // masked
	CreatedAt time.Time `json:"created_at"`
}

type NewAccount struct {
	Name     string  `json:"name"`
	Type     Type    `json:"type"`
	Currency string  `json:"currency,omitempty"`
	Balance  float64 `json:"balance"`
	Number   string  `json:"number,omitempty"`
}
