// Package health reports whether the database is reachable and migrated.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"passport/pkg/platform/httputil"
)

// RequiredTables must exist in the public schema for the service to work.
// Keep in sync with the table list in probe.
var RequiredTables = []string{"accounts", "applications"}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Report is the body of GET /api/health.
type Report struct {
	Status   string   `json:"status"`
	Database string   `json:"database"`
	Tables   []string `json:"tables,omitempty"`
	Missing  []string `json:"missing_tables,omitempty"`
	Message  string   `json:"message"`
	Error    string   `json:"error,omitempty"`
}

// Ready reports whether every required table is present.
func (r Report) Ready() bool {
	return r.Status == StatusHealthy && len(r.Missing) == 0
}

// Checker probes the database.
type Checker struct {
	db *sql.DB
}

func NewChecker(db *sql.DB) *Checker {
	return &Checker{db: db}
}

// Check never returns an error; failures are described in the report.
func (c *Checker) Check(ctx context.Context) Report {
	tables, err := c.probe(ctx)
	if err != nil {
		return Report{
			Status:   StatusUnhealthy,
			Database: "disconnected",
			Error:    err.Error(),
			Message:  "Database connection failed",
		}
	}

	var missing []string
	for _, want := range RequiredTables {
		if !slices.Contains(tables, want) {
			missing = append(missing, want)
		}
	}
	report := Report{
		Status:   StatusHealthy,
		Database: "connected",
		Tables:   tables,
		Missing:  missing,
		Message:  "Database connection successful",
	}
	if len(missing) > 0 {
		report.Message = "Required tables are missing; run migrations"
	}
	return report
}

func (c *Checker) probe(ctx context.Context) ([]string, error) {
	var one int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name IN ('accounts', 'applications')
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// Handler serves GET /api/health. It always answers 200 so that the body,
// not the status code, carries the diagnosis.
type Handler struct {
	checker *Checker
	logger  *slog.Logger
}

func NewHandler(checker *Checker, logger *slog.Logger) *Handler {
	return &Handler{checker: checker, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/health", h.HandleHealth)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	if report.Status != StatusHealthy {
		h.logger.WarnContext(r.Context(), "health check failed", "error", report.Error)
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
