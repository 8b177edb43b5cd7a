package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"passport/internal/applications/models"
	"passport/internal/platform/metrics"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/sentinel"
	"passport/pkg/platform/tx"
)

// Store persists applications. FindByIDForUpdate and UpdateStatus return
// sentinel.ErrNotFound for an unknown id.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	List(ctx context.Context) ([]*models.Application, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) (*models.Application, error)
}

// Service owns the application lifecycle: submission, listing and status
// transitions.
type Service struct {
	applications Store
	tx           tx.Runner
	guard        models.TransitionGuard
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

type Option func(s *Service)

func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

// WithGuard enables transition checks on UpdateStatus.
func WithGuard(guard models.TransitionGuard) Option {
	return func(s *Service) {
		s.guard = guard
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

func New(applications Store, opts ...Option) *Service {
	s := &Service{
		applications: applications,
		tx:           tx.Passthrough{},
		logger:       slog.New(slog.DiscardHandler),
		tracer:       otel.Tracer("passport/internal/applications"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and stores a new application. Status defaults to pending.
func (s *Service) Submit(ctx context.Context, req *models.SubmitRequest) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "applications.Submit")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	app, err := models.NewApplication(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid application")
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.applications.Create(ctx, app)
	})
	if err != nil {
		return nil, s.fail(span, persistence(err, "failed to submit application"))
	}

	span.SetAttributes(attribute.Int64("application.id", app.ID))
	if s.metrics != nil {
		s.metrics.IncrementApplicationsSubmitted()
	}
	s.logger.InfoContext(ctx, "application submitted",
		"application_id", app.ID,
		"username", app.Username,
		"status", app.Status,
	)
	return app, nil
}

// List returns every application, newest first. The result is never nil.
func (s *Service) List(ctx context.Context) ([]*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "applications.List")
	defer span.End()

	apps, err := s.applications.List(ctx)
	if err != nil {
		return nil, s.fail(span, persistence(err, "failed to list applications"))
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	span.SetAttributes(attribute.Int("applications.count", len(apps)))
	return apps, nil
}

// UpdateStatus moves application id to status. Re-applying the current
// status succeeds.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "applications.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("application.id", id))

	if id <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "application id must be a positive integer")
	}
	next, err := models.ParseStatus(status)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}

	var updated *models.Application
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if s.guard != nil {
			current, err := s.applications.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := s.guard.Check(current.Status, next); err != nil {
				return dErrors.Wrap(err, dErrors.CodeConflict,
					"cannot move application from "+current.Status.String()+" to "+next.String())
			}
		}
		app, err := s.applications.UpdateStatus(ctx, id, next)
		if err != nil {
			return err
		}
		updated = app
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		case dErrors.HasCode(err, dErrors.CodeConflict):
			s.logger.InfoContext(ctx, "status transition refused",
				"application_id", id,
				"status", next,
			)
			return nil, err
		}
		return nil, s.fail(span, persistence(err, "failed to update application"))
	}

	if s.metrics != nil {
		s.metrics.RecordStatusUpdate(updated.Status.String())
	}
	s.logger.InfoContext(ctx, "application status updated",
		"application_id", updated.ID,
		"status", updated.Status,
	)
	return updated, nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

// persistence codes a store failure, keeping transaction timeouts intact.
func persistence(err error, msg string) error {
	if dErrors.HasCode(err, dErrors.CodeTimeout) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodePersistence, msg)
}
