package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpers_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Report("summary", "ok")
		m.VendorProvisioned()
		m.OrderIngested("stored")
		m.LoginAttempt("ok")
	})
}

func TestReportCounter(t *testing.T) {
	m := New(nil)
	m.Report("summary", "ok")
	m.Report("summary", "ok")
	m.Report("summary", "degraded")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("summary", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("summary", "degraded")))
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.VendorProvisioned()

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vendors_provisioned_total 1")
}
