package transaction

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]*Transaction
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]*Transaction)}
}

func (r *MemoryRepo) List(_ context.Context, userID string, f Filter) ([]*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txs := []*Transaction{}
	for _, t := range r.byUser[userID] {
		if f.Match(t) {
			cp := *t
			txs = append(txs, &cp)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

func (r *MemoryRepo) Add(_ context.Context, t *Transaction) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *t
	cp.ID = uuid.NewString()
	r.byUser[cp.UserID] = append(r.byUser[cp.UserID], &cp)
	return cp.ID, nil
}
