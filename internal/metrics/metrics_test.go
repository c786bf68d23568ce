package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecording(t *testing.T) {
	m := New()

	m.UnitScraped("players", time.Second)
	m.UnitScraped("players", 2*time.Second)
	m.UnitFailed("players", "fetch", time.Second)
	m.RunFinished("players", 480, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.unitsScraped.WithLabelValues("players")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unitFailures.WithLabelValues("players", "fetch")))
	assert.Equal(t, 480.0, testutil.ToFloat64(m.records.WithLabelValues("players")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.duplicates.WithLabelValues("players")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.unitDuration))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.UnitFailed("transfers", "render_timeout", 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `premierstats_unit_failures_total{dataset="transfers",reason="render_timeout"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.UnitScraped("players", time.Second)
		m.UnitFailed("players", "other", time.Second)
		m.RunFinished("players", 1, 0)
	})
	assert.Nil(t, m.Registry())
}
