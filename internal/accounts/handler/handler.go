package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"passport/internal/accounts/models"
	"passport/internal/platform/middleware"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/platform/httputil"
	"passport/pkg/platform/middleware/metadata"
)

// Service defines the account operations the handler needs.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error)
	Authenticate(ctx context.Context, req *models.LoginRequest) (*models.Account, error)
}

// TokenIssuer signs the session token returned on login.
type TokenIssuer interface {
	IssueSessionToken(username, category string) (string, time.Time, error)
}

// Handler serves signup and login.
type Handler struct {
	logger  *slog.Logger
	service Service
	tokens  TokenIssuer
}

// New creates an accounts Handler. tokens may be nil, in which case login
// responses carry no access token.
func New(service Service, tokens TokenIssuer, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		tokens:  tokens,
	}
}

// Register registers the account routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/signup", h.HandleSignup)
	r.Post("/api/login", h.HandleLogin)
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	account, err := h.service.Register(ctx, req)
	if err != nil {
		h.logFailure(ctx, "signup failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.RegisterResponse{
		Message:  "User created successfully",
		Category: account.Category,
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	account, err := h.service.Authenticate(ctx, req)
	if err != nil {
		h.logFailure(ctx, "login failed", requestID, err,
			"client_ip", metadata.FromContext(ctx).IP,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := models.LoginResponse{
		Message:  "Login successful",
		Category: account.Category,
		Username: account.Username,
	}
	if h.tokens != nil {
		token, expiresAt, err := h.tokens.IssueSessionToken(account.Username, account.Category)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to issue session token",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token"))
			return
		}
		resp.AccessToken = token
		resp.ExpiresAt = &expiresAt
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error, attrs ...any) {
	attrs = append([]any{"request_id", requestID, "error", err}, attrs...)
	if dErrors.IsClientFacing(dErrors.CodeOf(err)) {
		h.logger.WarnContext(ctx, msg, attrs...)
		return
	}
	h.logger.ErrorContext(ctx, msg, attrs...)
}
