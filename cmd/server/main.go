package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	accountsHandler "passport/internal/accounts/handler"
	accountsService "passport/internal/accounts/service"
	accountsStore "passport/internal/accounts/store"
	applicationsHandler "passport/internal/applications/handler"
	applicationsModels "passport/internal/applications/models"
	applicationsService "passport/internal/applications/service"
	applicationsStore "passport/internal/applications/store"
	"passport/internal/health"
	httpapi "passport/internal/http"
	jwttoken "passport/internal/jwt_token"
	"passport/internal/platform/config"
	"passport/internal/platform/httpserver"
	"passport/internal/platform/logger"
	"passport/internal/platform/metrics"
	"passport/internal/platform/middleware"
	"passport/internal/platform/postgres"
	"passport/pkg/platform/tx"
)

const (
	sessionIssuer   = "passport"
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, postgres.Options{
		Driver:          cfg.Database.Driver,
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			return err
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	runner := tx.NewPostgres(db)

	accounts := accountsService.New(accountsStore.NewPostgres(db),
		accountsService.WithTx(runner),
		accountsService.WithHasher(accountsService.HasherFor(cfg.Security.PasswordHashing)),
		accountsService.WithLogger(log),
		accountsService.WithMetrics(m),
	)

	appOpts := []applicationsService.Option{
		applicationsService.WithTx(runner),
		applicationsService.WithLogger(log),
		applicationsService.WithMetrics(m),
	}
	if cfg.Applications.StrictStatusTransitions {
		appOpts = append(appOpts, applicationsService.WithGuard(applicationsModels.StrictGuard{}))
	}
	applications := applicationsService.New(applicationsStore.NewPostgres(db), appOpts...)

	sessions := jwttoken.NewJWTService(cfg.Security.SessionSigningKey, sessionIssuer, cfg.Security.SessionTTL)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
		CORS:           middleware.DefaultCORSConfig(cfg.Server.CORSAllowedOrigins),
		RequestTimeout: cfg.Server.RequestTimeout,
		Health:         health.NewHandler(health.NewChecker(db), log),
		Accounts:       accountsHandler.New(accounts, sessions, log),
		Applications:   applicationsHandler.New(applications, log),
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting passport api",
			"addr", cfg.Server.Addr,
			"db_driver", cfg.Database.Driver,
			"password_hashing", cfg.Security.PasswordHashing,
			"strict_status_transitions", cfg.Applications.StrictStatusTransitions,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
