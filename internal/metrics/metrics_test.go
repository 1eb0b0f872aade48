package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RecordsCounters(t *testing.T) {
	r := NewRegistry()

	r.RecordSymbolScanned()
	r.RecordSymbolScanned()
	r.RecordSignalFired("macd-cross")
	r.RecordFetchFailure()
	r.RecordOutcomeFilled("5d", "WIN")
	r.SetPendingSignals(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.symbolsScanned))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signalsFired.WithLabelValues("macd-cross")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomesFilled.WithLabelValues("5d", "WIN")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.pendingSignals))
}

func TestRegistry_NilIsSafe(t *testing.T) {
	var r *Registry

	// Every recording method must be a no-op on a nil registry.
	r.RecordSymbolScanned()
	r.RecordSignalFired("macd-cross")
	r.RecordFetchFailure()
	r.RecordScan(1.5)
	r.RecordSweep(0.5)
	r.RecordOutcomeFilled("10d", "LOSS")
	r.SetPendingSignals(0)
}

func TestRegistry_HandlerServesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordSignalFired("ema-cross")
	r.RecordScan(2.0)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "sigscan_signals_fired_total"))
	assert.True(t, strings.Contains(body, "sigscan_scan_duration_seconds"))
}
