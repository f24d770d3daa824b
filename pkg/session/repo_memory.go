package session

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	sessions     map[string]Record
	userSessions map[string]map[string]struct{}
	mutex        sync.RWMutex
	maxSessions  int
	now          func() time.Time
}

// NewMemoryRepo keeps at most maxSessions records, evicting the one that
// expires first; maxSessions <= 0 means unbounded.
func NewMemoryRepo(maxSessions int) *MemoryRepo {
	return &MemoryRepo{
		sessions:     make(map[string]Record),
		userSessions: make(map[string]map[string]struct{}),
		maxSessions:  maxSessions,
		now:          time.Now,
	}
}

func (s *MemoryRepo) Add(_ context.Context, rec *Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.sessions[rec.Token]; !exists && s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		if oldest := s.findFirstExpiring(); oldest != "" {
			s.deleteInternal(oldest)
		}
	}

	s.deleteInternal(rec.Token)
	s.sessions[rec.Token] = *rec

	if _, exists := s.userSessions[rec.UserID]; !exists {
		s.userSessions[rec.UserID] = make(map[string]struct{})
	}
	s.userSessions[rec.UserID][rec.Token] = struct{}{}

	return nil
}

func (s *MemoryRepo) Get(_ context.Context, token string) (*Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rec, exists := s.sessions[token]
	if !exists || s.now().After(rec.ExpiresAt) {
		return nil, ErrNoAuth
	}
	return &rec, nil
}

func (s *MemoryRepo) Destroy(_ context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.deleteInternal(token)
	return nil
}

func (s *MemoryRepo) DestroyAll(_ context.Context, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for token := range s.userSessions[userID] {
		s.deleteInternal(token)
	}
	return nil
}

// Cleanup drops expired records.
func (s *MemoryRepo) Cleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	for token, rec := range s.sessions {
		if now.After(rec.ExpiresAt) {
			s.deleteInternal(token)
		}
	}
}

func (s *MemoryRepo) findFirstExpiring() string {
	var (
		first   string
		firstAt time.Time
	)
	for token, rec := range s.sessions {
		if first == "" || rec.ExpiresAt.Before(firstAt) {
			first = token
			firstAt = rec.ExpiresAt
		}
	}
	return first
}

func (s *MemoryRepo) deleteInternal(token string) {
	rec, exists := s.sessions[token]
	if !exists {
		return
	}
	if tokens, ok := s.userSessions[rec.UserID]; ok {
		delete(tokens, token)
		if len(tokens) == 0 {
			delete(s.userSessions, rec.UserID)
		}
	}
	delete(s.sessions, token)
}
