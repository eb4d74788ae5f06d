package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUtterance(OutcomeReplied)
	m.ObserveCompletionLatency(time.Second)
	m.ObservePersistenceError("save")
	m.SetHistoryLength(3)
	m.ObservePromptTokens(100)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics("ridevoice")
	b := NewMetrics("ridevoice")

	a.ObserveUtterance(OutcomeActivated)
	a.ObserveUtterance(OutcomeActivated)
	b.ObserveUtterance(OutcomeActivated)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.Utterances.WithLabelValues(OutcomeActivated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.Utterances.WithLabelValues(OutcomeActivated)))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("ridevoice")
	m.SetHistoryLength(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ridevoice_history_turns 7")
}
