package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	accounts []*Account
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) GetAccounts(_ context.Context, userID string) ([]*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := []*Account{}
	for _, a := range r.accounts {
		if a.UserID == userID {
			cp := *a
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *MemoryRepo) AddAccount(_ context.Context, a *Account) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *a
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.accounts = append(r.accounts, &cp)
	return cp.ID, nil
}

func (r *MemoryRepo) Owns(_ context.Context, userID, accountID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.ID == accountID {
			return a.UserID == userID, nil
		}
	}
	return false, nil
}
