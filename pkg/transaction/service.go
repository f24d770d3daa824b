package transaction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/session"
)

type IRepo interface {
	List(ctx context.Context, userID string, f Filter) ([]*Transaction, error)
	Add(ctx context.Context, t *Transaction) (string, error)
}

// iAccounts lets quick-add refuse an account the user doesn't own.
type iAccounts interface {
	Owns(ctx context.Context, userID, accountID string) (bool, error)
}

type service struct {
	repo     IRepo
	accounts iAccounts
	now      func() time.Time
}

var (
	errZeroAmount     = errors.New("amount must not be zero")
	errBadType        = errors.New("type must be income or expense")
	errNoDescription  = errors.New("description is required")
	errUnknownAccount = errors.New("account not found")
)

const defaultCategory = "Other"

// NewService builds the transaction service; accounts may be nil.
func NewService(r IRepo, accounts iAccounts) *service {
	return &service{
		repo:     r,
		accounts: accounts,
		now:      time.Now,
	}
}

// Query is the raw listing filter as it comes from the URL. "all" and ""
// both disable a filter.
type Query struct {
	Search   string
	Category string
	Type     string
	Period   string
}

func (s *service) filter(q Query) (Filter, error) {
	f := Filter{Search: strings.TrimSpace(q.Search)}
	if q.Category != "" && q.Category != "all" {
		f.Category = q.Category
	}
	switch q.Type {
	case "", "all":
	case string(Income), string(Expense):
		f.Type = Type(q.Type)
	default:
		return f, errBadType
	}
	if q.Period != "" && q.Period != "all" {
		from, to, err := PeriodRange(q.Period, s.now())
		if err != nil {
			return f, err
		}
		f.From, f.To = from, to
	}
	return f, nil
}

func (s *service) List(ctx context.Context, q Query) ([]*Transaction, error) {
	userID, err := session.GetAuthUserID(ctx)
	if err != nil {
		logger.Log(ctx).Errorf("transaction: can't get authorized user, %v", err)
		return nil, err
	}

	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.List(ctx, userID, f)
	if err != nil {
		logger.Log(ctx).Errorf("transaction: can't list user transactions, %v", err)
		return nil, err
	}
	return txs, nil
}

func (s *service) Add(ctx context.Context, in *NewTransaction) (*Transaction, error) {
	userID, err := session.GetAuthUserID(ctx)
	if err != nil {
		logger.Log(ctx).Errorf("transaction: can't get authorized user, %v", err)
		return nil, err
	}

	if in.Amount == 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, errZeroAmount
	}
	typ := in.Type
	if typ == "" {
		typ = Expense
	}
	if typ != Income && typ != Expense {
		return nil, errBadType
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, errNoDescription
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultCategory
	}

	if in.AccountID != "" && s.accounts != nil {
		owns, err := s.accounts.Owns(ctx, userID, in.AccountID)
		if err != nil {
			logger.Log(ctx).Errorf("transaction: can't check account `%s`, %v", in.AccountID, err)
			return nil, err
		}
		if !owns {
			return nil, fmt.Errorf("account `%s`, %w", in.AccountID, errUnknownAccount)
		}
	}

	amount := math.Abs(in.Amount)
	if typ == Expense {
		amount = -amount
	}

	t := &Transaction{
		UserID:      userID,
		AccountID:   in.AccountID,
		Date:        s.now(),
		Description: desc,
		Merchant:    strings.TrimSpace(in.Merchant),
		Category:    category,
		Amount:      amount,
		Type:        typ,
		Status:      Completed,
	}
	id, err := s.repo.Add(ctx, t)
	if err != nil {
		logger.Log(ctx).Errorf("transaction: failed adding transaction, %v", err)
		return nil, err
	}
	t.ID = id
	return t, nil
}

func (s *service) Summary(ctx context.Context, q Query) (*Summary, error) {
	txs, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Count: len(txs)}
	for _, t := range txs {
		if t.Type == Income {
			sum.Income += math.Abs(t.Amount)
		} else {
			sum.Expenses += math.Abs(t.Amount)
		}
	}
	sum.Balance = sum.Income - sum.Expenses
	return sum, nil
}
