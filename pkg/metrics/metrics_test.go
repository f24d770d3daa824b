package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGuardDecision(t *testing.T) {
	m := New()
	m.GuardDecision("allow")
	m.GuardDecision("allow")
	m.GuardDecision("login")

	require.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("allow")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("login")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.GuardDecision("allow")
		m.SessionEvent("created")
	})
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.SessionEvent("created")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, string(body), `spendahead_session_events_total{event="created"} 1`)
}
