// Command dbcheck verifies that the configured database is reachable and
// that the service tables exist. It exits non-zero otherwise.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"passport/internal/health"
	"passport/internal/platform/config"
	"passport/internal/platform/logger"
	"passport/internal/platform/postgres"
)

const checkTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	if err := cfg.RequireDatabase(); err != nil {
		log.Error("database check failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, postgres.Options{
		Driver: cfg.Database.Driver,
		URL:    cfg.Database.URL,
	})
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	report := health.NewChecker(db).Check(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)

	if !report.Ready() {
		log.Error("database not ready", "status", report.Status, "missing_tables", report.Missing)
		db.Close()
		os.Exit(1)
	}
	log.Info("database ready")
}
