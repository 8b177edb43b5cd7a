package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"passport/pkg/requestcontext"
)

func TestContextHelpers(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := NewRequest(t, http.MethodGet, "/")
	req = WithRequestTime(WithRequestID(req, "req-123"), at)

	assert.Equal(t, "req-123", requestcontext.RequestID(req.Context()))
	assert.Equal(t, at, requestcontext.Now(req.Context()))
}
