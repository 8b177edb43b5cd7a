package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"passport/internal/applications/models"
	"passport/pkg/platform/sentinel"
	"passport/pkg/platform/tx"
)

const applicationColumns = `id, username, name, father_name, date_of_birth, permanent_address,
	temporary_address, phone, email, pan, status, created_at`

// PostgresStore persists applications in the applications table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed application store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts app and refreshes it from the stored row.
func (s *PostgresStore) Create(ctx context.Context, app *models.Application) error {
	if app == nil {
		return fmt.Errorf("application is required")
	}
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`INSERT INTO applications (username, name, father_name, date_of_birth, permanent_address,
			temporary_address, phone, email, pan, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+applicationColumns,
		app.Username, app.Name, app.FatherName, app.DateOfBirth, app.PermanentAddress,
		app.TemporaryAddress, app.Phone, app.Email, app.PAN, app.Status,
	)
	stored, err := scanApplication(row)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	*app = *stored
	return nil
}

// List returns all applications, newest first. Ties on created_at fall back
// to the higher id.
func (s *PostgresStore) List(ctx context.Context) ([]*models.Application, error) {
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

// FindByIDForUpdate locks the row for the rest of the surrounding transaction.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, id int64) (*models.Application, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.Application, error) {
	row := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2 RETURNING `+applicationColumns,
		status, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return app, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID, &a.Username, &a.Name, &a.FatherName, &a.DateOfBirth, &a.PermanentAddress,
		&a.TemporaryAddress, &a.Phone, &a.Email, &a.PAN, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
