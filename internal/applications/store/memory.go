package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"passport/internal/applications/models"
	"passport/pkg/platform/sentinel"
	"passport/pkg/requestcontext"
)

// InMemoryStore keeps applications in insertion order.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.Application
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byID: make(map[int64]*models.Application)}
}

func (s *InMemoryStore) Create(ctx context.Context, app *models.Application) error {
	if app == nil {
		return fmt.Errorf("application is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	app.ID = s.nextID
	app.CreatedAt = requestcontext.Now(ctx)
	if app.Status == "" {
		app.Status = models.StatusPending
	}
	stored := *app
	s.byID[app.ID] = &stored
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := make([]*models.Application, 0, len(s.byID))
	for _, app := range s.byID {
		found := *app
		apps = append(apps, &found)
	}
	sort.Slice(apps, func(i, j int) bool {
		if !apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].CreatedAt.After(apps[j].CreatedAt)
		}
		return apps[i].ID > apps[j].ID
	})
	return apps, nil
}

func (s *InMemoryStore) FindByIDForUpdate(_ context.Context, id int64) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *app
	return &found, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id int64, status models.Status) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	app.Status = status
	updated := *app
	return &updated, nil
}
