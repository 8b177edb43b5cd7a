package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"passport/internal/applications/models"
	"passport/internal/applications/store"
	"passport/internal/platform/metrics"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemoryStore
	metrics *metrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.store, WithMetrics(s.metrics))
}

func validSubmit() *models.SubmitRequest {
	return &models.SubmitRequest{
		Username:         "alice",
		Name:             "Alice Example",
		FatherName:       "Bob Example",
		DateOfBirth:      "1990-05-01",
		PermanentAddress: "1 Main St",
		TemporaryAddress: "2 Side St",
		Phone:            "5550100",
		Email:            "a@x.com",
		PAN:              "ABCDE1234F",
	}
}

func (s *ServiceSuite) submit(req *models.SubmitRequest) *models.Application {
	app, err := s.service.Submit(context.Background(), req)
	s.Require().NoError(err)
	return app
}

func (s *ServiceSuite) TestSubmit() {
	s.Run("defaults status to pending", func() {
		app := s.submit(validSubmit())
		s.NotZero(app.ID)
		s.Equal(models.StatusPending, app.Status)
		s.Equal(models.Date{Year: 1990, Month: time.May, Day: 1}, app.DateOfBirth)
	})

	s.Run("keeps an explicit valid status", func() {
		req := validSubmit()
		req.Status = "accepted"
		s.Equal(models.StatusAccepted, s.submit(req).Status)
	})

	s.Run("rejects status outside the enum", func() {
		for _, status := range []string{"approved", "Accepted", " pending"} {
			req := validSubmit()
			req.Status = status
			_, err := s.service.Submit(context.Background(), req)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), status)
		}
	})

	s.Run("rejects missing field", func() {
		req := validSubmit()
		req.FatherName = "  "
		_, err := s.service.Submit(context.Background(), req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.EqualError(err, "father_name is required")
	})

	s.Run("rejects impossible date", func() {
		req := validSubmit()
		req.DateOfBirth = "1990-02-30"
		_, err := s.service.Submit(context.Background(), req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects short pan", func() {
		req := validSubmit()
		req.PAN = "ABC"
		_, err := s.service.Submit(context.Background(), req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Equal(float64(2), testutil.ToFloat64(s.metrics.ApplicationsSubmitted))
}

func (s *ServiceSuite) TestSubmitKeepsFieldsVerbatim() {
	req := &models.SubmitRequest{
		Username:         " alice ",
		Name:             "  Alice Example",
		FatherName:       "Bob Example\t",
		DateOfBirth:      "1990-05-01",
		PermanentAddress: "1 Main St\n",
		TemporaryAddress: "  2 Side St  ",
		Phone:            " 555 0100",
		Email:            "Alice@Example.com",
		PAN:              " ABCDE123 ",
		Status:           "rejected",
	}
	want := *req

	check := func(app *models.Application) {
		s.Equal(want.Username, app.Username)
		s.Equal(want.Name, app.Name)
		s.Equal(want.FatherName, app.FatherName)
		s.Equal(want.DateOfBirth, app.DateOfBirth.String())
		s.Equal(want.PermanentAddress, app.PermanentAddress)
		s.Equal(want.TemporaryAddress, app.TemporaryAddress)
		s.Equal(want.Phone, app.Phone)
		s.Equal(want.Email, app.Email)
		s.Equal(want.PAN, app.PAN)
		s.Equal(want.Status, app.Status.String())
	}

	submitted := s.submit(req)
	check(submitted)

	apps, err := s.service.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(apps, 1)
	s.Equal(submitted.ID, apps[0].ID)
	check(apps[0])
}

func (s *ServiceSuite) TestListNewestFirst() {
	empty, err := s.service.List(context.Background())
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []int64
	for i := range 3 {
		ctx := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Second))
		app, err := s.service.Submit(ctx, validSubmit())
		s.Require().NoError(err)
		ids = append(ids, app.ID)
	}

	apps, err := s.service.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(apps, 3)
	s.Equal([]int64{ids[2], ids[1], ids[0]}, []int64{apps[0].ID, apps[1].ID, apps[2].ID})
}

func (s *ServiceSuite) TestUpdateStatusUnguarded() {
	app := s.submit(validSubmit())

	accepted, err := s.service.UpdateStatus(context.Background(), app.ID, "accepted")
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, accepted.Status)

	rejected, err := s.service.UpdateStatus(context.Background(), app.ID, "rejected")
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, rejected.Status)

	again, err := s.service.UpdateStatus(context.Background(), app.ID, "rejected")
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, again.Status)

	back, err := s.service.UpdateStatus(context.Background(), app.ID, "pending")
	s.Require().NoError(err)
	s.Equal(models.StatusPending, back.Status)

	s.Equal(float64(2), testutil.ToFloat64(s.metrics.StatusUpdates.WithLabelValues("rejected")))
}

func (s *ServiceSuite) TestUpdateStatusErrors() {
	app := s.submit(validSubmit())

	_, err := s.service.UpdateStatus(context.Background(), 9999, "accepted")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.UpdateStatus(context.Background(), 0, "accepted")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.UpdateStatus(context.Background(), app.ID, "archived")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	unchanged, err := s.store.FindByIDForUpdate(context.Background(), app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, unchanged.Status)
}

func (s *ServiceSuite) TestUpdateStatusStrictGuard() {
	svc := New(s.store, WithGuard(models.StrictGuard{}))
	app := s.submit(validSubmit())

	accepted, err := svc.UpdateStatus(context.Background(), app.ID, "accepted")
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, accepted.Status)

	_, err = svc.UpdateStatus(context.Background(), app.ID, "accepted")
	s.Require().NoError(err, "re-applying the current status is allowed")

	_, err = svc.UpdateStatus(context.Background(), app.ID, "rejected")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.ErrorIs(err, models.ErrTransitionNotAllowed)

	_, err = svc.UpdateStatus(context.Background(), 12345, "accepted")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

type brokenStore struct{ err error }

func (b brokenStore) Create(context.Context, *models.Application) error { return b.err }

func (b brokenStore) List(context.Context) ([]*models.Application, error) { return nil, b.err }

func (b brokenStore) FindByIDForUpdate(context.Context, int64) (*models.Application, error) {
	return nil, b.err
}

func (b brokenStore) UpdateStatus(context.Context, int64, models.Status) (*models.Application, error) {
	return nil, b.err
}

func (s *ServiceSuite) TestStoreFailuresArePersistenceErrors() {
	svc := New(brokenStore{err: errors.New("connection refused")})

	_, err := svc.Submit(context.Background(), validSubmit())
	s.True(dErrors.HasCode(err, dErrors.CodePersistence))

	_, err = svc.List(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodePersistence))

	_, err = svc.UpdateStatus(context.Background(), 1, "accepted")
	s.True(dErrors.HasCode(err, dErrors.CodePersistence))
}
