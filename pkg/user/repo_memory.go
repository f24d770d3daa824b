package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo backs the service when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byLogin map[string]*User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]*User),
		byLogin: make(map[string]*User),
	}
}

func (r *MemoryRepo) Add(_ context.Context, u *User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[u.Login]; ok {
		return ``, errUserAlreadyExists
	}
	stored := *u
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored
	r.byLogin[stored.Login] = &stored
	return stored.ID, nil
}

func (r *MemoryRepo) GetByLogin(_ context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byLogin[login]
	if !ok {
		return nil, errUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepo) UserExists(_ context.Context, login string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byLogin[login]
	return ok, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepo) UpdatePassword(_ context.Context, id string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return errUserNotFound
	}
	u.Password = append([]byte(nil), hash...)
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return errUserNotFound
	}
	delete(r.byID, id)
	delete(r.byLogin, u.Login)
	return nil
}
