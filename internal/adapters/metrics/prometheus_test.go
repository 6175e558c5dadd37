package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stratum/internal/adapters/metrics"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
)

var _ ports.Metrics = (*metrics.PrometheusRecorder)(nil)

func TestPrometheusRecorder_ObservePhase(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rec.ObservePhase(domain.TargetDesktop, "configure", 2*time.Second, nil)
	rec.ObservePhase(domain.TargetDesktop, "compile", time.Second, errors.New("boom"))

	count, err := testutil.GatherAndCount(reg, "stratum_phase_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "stratum_phase_results_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPrometheusRecorder_ObserveBuild(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rec.ObserveBuild(domain.TargetFirmware, time.Second, nil)
	rec.ObserveBuild(domain.TargetFirmware, time.Second, domain.PhaseError(domain.ErrCompileFailed, errors.New("exit 1")))
	rec.ObserveBuild(domain.TargetFirmware, time.Second, domain.PhaseError(domain.ErrCompileFailed, errors.New("exit 2")))

	handler := rec.Handler()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stratum_build_outcomes_total{kind="",result="success",target="firmware"} 1`)
	assert.Contains(t, string(body), `stratum_build_outcomes_total{kind="compile_failed",result="failed",target="firmware"} 2`)
	assert.Contains(t, string(body), `stratum_build_duration_seconds_count{target="firmware"} 3`)
}

func TestPrometheusRecorder_InFlight(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rec.InFlight(1)
	rec.InFlight(1)
	rec.InFlight(-1)

	expected := `
# HELP stratum_builds_in_flight Number of builds currently running
# TYPE stratum_builds_in_flight gauge
stratum_builds_in_flight 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "stratum_builds_in_flight"))
}

func TestPrometheusRecorder_NilSafe(_ *testing.T) {
	var rec *metrics.PrometheusRecorder
	rec.ObservePhase(domain.TargetDesktop, "assets", time.Second, nil)
	rec.ObserveBuild(domain.TargetDesktop, time.Second, nil)
	rec.InFlight(1)
}
