package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementAccountsRegistered()
	m.RecordLogin("success")
	m.RecordLogin("failure")
	m.RecordLogin("failure")
	m.IncrementApplicationsSubmitted()
	m.RecordStatusUpdate("accepted")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountsRegistered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ApplicationsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusUpdates.WithLabelValues("accepted")))
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", "/api/applications", "200", time.Now())

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}
