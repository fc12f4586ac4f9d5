package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStepDuration("install", 1500*time.Millisecond)
	pr.IncStepResult("install", ResultFailed)
	pr.ObserveSequenceDuration(2 * time.Second)
	pr.IncSequenceOutcome("restart", "failed")
	pr.IncChildStart()
	pr.IncChildExit(1)
	pr.SetChildRunning(true)
	pr.IncUpdateCheck(UpdateUpToDate)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	require.InDelta(t, 1, testutil.ToFloat64(pr.stepResults.WithLabelValues("install", "failed")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.childExits.WithLabelValues("1")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.childRunning), 0)

	pr.SetChildRunning(false)
	require.InDelta(t, 0, testutil.ToFloat64(pr.childRunning), 0)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncChildStart()
	pr.IncUpdateCheck(UpdateFailed)
	var _ Recorder = NoopRecorder{}
	var _ Recorder = pr
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncChildStart()

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "dsmodinstaller_child_starts_total")
}
