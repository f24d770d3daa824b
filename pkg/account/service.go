package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/session"
)

type IAccountRepo interface {
	GetAccounts(ctx context.Context, userID string) ([]*Account, error)
	AddAccount(ctx context.Context, a *Account) (string, error)
	Owns(ctx context.Context, userID, accountID string) (bool, error)
}

type service struct {
	repo IAccountRepo
}

var (
	errNoName      = errors.New("account name is required")
	errBadType     = errors.New("account type must be one of bank, credit_card, cash, investment")
	errBadCurrency = errors.New("currency must be a three-letter code")
)

const defaultCurrency = "USD"

func NewService(r IAccountRepo) *service {
	return &service{
		repo: r,
	}
}

func (s *service) GetUserAccounts(ctx context.Context) ([]*Account, error) {
	userID, err := session.GetAuthUserID(ctx)
	if err != nil {
		logger.Log(ctx).Errorf("account: can't get authorized user, %v", err)
		return nil, err
	}

	accounts, err := s.repo.GetAccounts(ctx, userID)
	if err != nil {
		logger.Log(ctx).Errorf("account: can't get user accounts, %v", err)
		return nil, err
	}
	return accounts, nil
}

func (s *service) AddAccount(ctx context.Context, in *NewAccount) (*Account, error) {
	userID, err := session.GetAuthUserID(ctx)
	if err != nil {
		logger.Log(ctx).Errorf("account: can't get authorized user, %v", err)
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errNoName
	}
	if !in.Type.Valid() {
		return nil, errBadType
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, errBadCurrency
	}

	var masked string
	if in.Number != "" || in.Type == CreditCard {
		digits, err := normalizeNumber(in.Number)
		if err != nil {
			return nil, err
		}
		if in.Type == CreditCard {
			if err := checkCardNumber(digits); err != nil {
				logger.Log(ctx).Infof("account: card number luhn check failed for user `%s`", userID)
				return nil, err
			}
		}
		masked = maskNumber(digits)
	}

	a := &Account{
		UserID:   userID,
		Name:     name,
		Type:     in.Type,
		Currency: currency,
		Balance:  in.Balance,
		Number:   masked,
	}
	id, err := s.repo.AddAccount(ctx, a)
	if err != nil {
		logger.Log(ctx).Errorf("account: failed adding account, %v", err)
		return nil, fmt.Errorf("account: can't add `%s`, %w", name, err)
	}
	a.ID = id
	return a, nil
}
