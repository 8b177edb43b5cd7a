package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"passport/internal/accounts/models"
	"passport/internal/platform/metrics"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/sentinel"
	"passport/pkg/platform/tx"
)

// Store persists accounts. Implementations return sentinel.ErrNotFound when
// a lookup misses and sentinel.ErrConflict when a username is already taken.
type Store interface {
	Create(ctx context.Context, account *models.Account) error
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Account, error)
}

// Service registers and authenticates accounts.
type Service struct {
	accounts Store
	tx       tx.Runner
	hasher   PasswordHasher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func WithHasher(h PasswordHasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. Without options it runs without a transaction
// boundary and stores passwords as given.
func New(accounts Store, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		tx:       tx.Passthrough{},
		hasher:   PlaintextHasher{},
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer("passport/internal/accounts"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account. The username lookup and the insert share one
// transaction; a concurrent insert that slips past the lookup still surfaces
// as a conflict through the unique index.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	ctx, span := s.tracer.Start(ctx, "accounts.Register")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("account.username", req.Username))

	stored, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, dErrors.New(dErrors.CodeValidation, "password must be 72 bytes or less")
		}
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password"))
	}

	var account *models.Account
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.accounts.FindByUsername(ctx, req.Username)
		switch {
		case err == nil && existing != nil:
			return dErrors.New(dErrors.CodeConflict, "username already exists")
		case err != nil && !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodePersistence, "failed to look up username")
		}

		candidate := &models.Account{
			Username: req.Username,
			Email:    req.Email,
			Password: stored,
			Category: req.Category,
		}
		if err := s.accounts.Create(ctx, candidate); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "username already exists")
			}
			return dErrors.Wrap(err, dErrors.CodePersistence, "failed to create account")
		}
		account = candidate
		return nil
	})
	if err != nil {
		var coded *dErrors.Error
		if !errors.As(err, &coded) {
			// begin or commit failure
			err = dErrors.Wrap(err, dErrors.CodePersistence, "failed to create account")
		}
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.logger.InfoContext(ctx, "registration rejected", "username", req.Username, "reason", "username_taken")
			return nil, err
		}
		return nil, s.fail(span, err)
	}

	if s.metrics != nil {
		s.metrics.IncrementAccountsRegistered()
	}
	s.logger.InfoContext(ctx, "account registered",
		"account_id", account.ID,
		"username", account.Username,
		"category", account.Category,
	)
	return account, nil
}

// Authenticate returns the first account, in creation order, whose email
// matches and whose stored password matches the candidate.
func (s *Service) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.Account, error) {
	ctx, span := s.tracer.Start(ctx, "accounts.Authenticate")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.accounts.ListByEmail(ctx, req.Email)
	if err != nil {
		s.recordLogin("error")
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodePersistence, "failed to look up account"))
	}
	for _, account := range candidates {
		if s.hasher.Compare(account.Password, req.Password) {
			s.recordLogin("success")
			span.SetAttributes(attribute.Int64("account.id", account.ID))
			return account, nil
		}
	}

	s.recordLogin("invalid_credentials")
	s.logger.InfoContext(ctx, "login rejected", "reason", "invalid_credentials")
	return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
}

func (s *Service) recordLogin(result string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(result)
	}
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}
