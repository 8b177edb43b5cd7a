package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockChecker(t *testing.T) (*Checker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewChecker(db), mock
}

func TestCheckHealthy(t *testing.T) {
	checker, mock := newMockChecker(t)
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("accounts").AddRow("applications"))

	report := checker.Check(context.Background())

	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "connected", report.Database)
	assert.Equal(t, []string{"accounts", "applications"}, report.Tables)
	assert.Empty(t, report.Missing)
	assert.True(t, report.Ready())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckMissingTables(t *testing.T) {
	checker, mock := newMockChecker(t)
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("accounts"))

	report := checker.Check(context.Background())

	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, []string{"applications"}, report.Missing)
	assert.Contains(t, report.Message, "run migrations")
	assert.False(t, report.Ready())
}

func TestCheckDisconnected(t *testing.T) {
	checker, mock := newMockChecker(t)
	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("dial tcp: connection refused"))

	report := checker.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, "disconnected", report.Database)
	assert.Contains(t, report.Error, "connection refused")
	assert.False(t, report.Ready())
}

func TestHandlerAlwaysAnswers200(t *testing.T) {
	checker, mock := newMockChecker(t)
	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("timeout"))

	r := chi.NewRouter()
	NewHandler(checker, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, StatusUnhealthy, body.Status)
	assert.Equal(t, "Database connection failed", body.Message)
}
