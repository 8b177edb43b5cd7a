package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"passport/internal/accounts/models"
	"passport/internal/platform/postgres"
	"passport/pkg/platform/sentinel"
	"passport/pkg/platform/tx"
)

const accountColumns = "id, username, email, password, category, created_at"

// PostgresStore persists accounts in the accounts table. Queries join the
// transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed account store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts account and fills in its ID and CreatedAt.
func (s *PostgresStore) Create(ctx context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO accounts (username, email, password, category)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		account.Username, account.Email, account.Password, account.Category,
	)
	if err := row.Scan(&account.ID, &account.CreatedAt); err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("create account %q: %w", account.Username, sentinel.ErrConflict)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return account, nil
}

// ListByEmail returns every account registered with email, oldest first.
func (s *PostgresStore) ListByEmail(ctx context.Context, email string) ([]*models.Account, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1 ORDER BY id`, email)
	if err != nil {
		return nil, fmt.Errorf("list accounts by email: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Password, &a.Category, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
