//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"passport/internal/accounts/models"
	"passport/internal/accounts/service"
	"passport/internal/accounts/store"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/sentinel"
	"passport/pkg/platform/tx"
	"passport/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "accounts")
	s.Require().NoError(err)
}

func newAccount(username, email string) *models.Account {
	return &models.Account{
		Username: username,
		Email:    email,
		Password: "secret",
		Category: models.CategoryApplicant,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	account := newAccount("ram", "ram@example.com")
	s.Require().NoError(s.store.Create(ctx, account))
	s.NotZero(account.ID)
	s.False(account.CreatedAt.IsZero())

	found, err := s.store.FindByUsername(ctx, "ram")
	s.Require().NoError(err)
	s.Equal(account.ID, found.ID)
	s.Equal("ram@example.com", found.Email)
	s.Equal(models.CategoryApplicant, found.Category)

	_, err = s.store.FindByUsername(ctx, "sita")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateUsernameIsConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newAccount("ram", "ram@example.com")))

	err := s.store.Create(ctx, newAccount("ram", "other@example.com"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestListByEmailOrdersByID() {
	ctx := context.Background()
	first := newAccount("ram", "shared@example.com")
	second := newAccount("shyam", "shared@example.com")
	s.Require().NoError(s.store.Create(ctx, first))
	s.Require().NoError(s.store.Create(ctx, second))
	s.Require().NoError(s.store.Create(ctx, newAccount("sita", "sita@example.com")))

	accounts, err := s.store.ListByEmail(ctx, "shared@example.com")
	s.Require().NoError(err)
	s.Require().Len(accounts, 2)
	s.Equal(first.ID, accounts[0].ID)
	s.Equal(second.ID, accounts[1].ID)
}

// TestConcurrentRegistration races registrations for one username through
// the service and a real transaction runner. Exactly one must win.
func (s *PostgresStoreSuite) TestConcurrentRegistration() {
	ctx := context.Background()
	svc := service.New(s.store, service.WithTx(tx.NewPostgres(s.postgres.DB)))
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32
	var otherErrors atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, &models.RegisterRequest{
				Username: "ram",
				Email:    fmt.Sprintf("ram%d@example.com", i),
				Password: "secret",
				Category: models.CategoryApplicant,
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflictCount.Add(1)
			default:
				otherErrors.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one registration should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "the rest should conflict")
	s.Zero(otherErrors.Load())

	_, err := s.store.FindByUsername(ctx, "ram")
	s.NoError(err)
}

func (s *PostgresStoreSuite) TestConcurrentCreateHitsUniqueIndex() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newAccount("sita", "sita@example.com"))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}
