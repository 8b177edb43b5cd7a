package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"passport/internal/applications/models"
	"passport/internal/platform/middleware"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/httputil"
)

// Service defines the application operations the handler needs.
type Service interface {
	Submit(ctx context.Context, req *models.SubmitRequest) (*models.Application, error)
	List(ctx context.Context) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Application, error)
}

// Handler serves the application intake and review endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the application routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/applications", h.HandleSubmit)
	r.Get("/api/applications", h.HandleList)
	r.Put("/api/applications/{id}", h.HandleUpdateStatus)
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.Submit(ctx, req)
	if err != nil {
		h.logFailure(ctx, "application submission failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.ApplicationResponse{
		Message:     "Application submitted successfully",
		Application: app,
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	apps, err := h.service.List(ctx)
	if err != nil {
		h.logFailure(ctx, "listing applications failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	httputil.WriteJSON(w, http.StatusOK, apps)
}

// HandleUpdateStatus reads the new status from the status query parameter,
// falling back to a JSON body of the form {"status": "..."}.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "application id must be an integer"))
		return
	}

	status, err := statusFromRequest(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid status update request",
			"request_id", requestID,
			"application_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.UpdateStatus(ctx, id, status)
	if err != nil {
		h.logFailure(ctx, "status update failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ApplicationResponse{
		Message:     "Application updated",
		Application: app,
	})
}

func statusFromRequest(r *http.Request) (string, error) {
	if status := r.URL.Query().Get("status"); status != "" {
		return status, nil
	}
	var body models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return "", dErrors.New(dErrors.CodeValidation, "status is required")
		}
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	if err := body.Validate(); err != nil {
		return "", err
	}
	return body.Status, nil
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if dErrors.IsClientFacing(dErrors.CodeOf(err)) {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
}
