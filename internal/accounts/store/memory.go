package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"passport/internal/accounts/models"
	"passport/pkg/platform/sentinel"
	"passport/pkg/requestcontext"
)

// InMemoryStore keeps accounts in a map keyed by username. It backs the
// service tests and local runs without a database.
type InMemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[string]*models.Account
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[string]*models.Account)}
}

func (s *InMemoryStore) Create(ctx context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.accounts[account.Username]; taken {
		return fmt.Errorf("create account %q: %w", account.Username, sentinel.ErrConflict)
	}
	s.nextID++
	account.ID = s.nextID
	account.CreatedAt = requestcontext.Now(ctx)

	stored := *account
	s.accounts[account.Username] = &stored
	return nil
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *account
	return &found, nil
}

func (s *InMemoryStore) ListByEmail(_ context.Context, email string) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*models.Account
	for _, account := range s.accounts {
		if account.Email == email {
			found := *account
			matches = append(matches, &found)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}
