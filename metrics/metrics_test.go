package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanoncore/nano-wanguard/failover"
	"github.com/nanoncore/nano-wanguard/types"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.SetState(failover.StateWaitingForLink)
	r.ObserveLink(types.LinkUp)
	r.SetCurrentVLAN(240)
	r.ObserveAttempt(types.FailoverAttempt{Candidate: 10, Outcome: types.AttemptTimedOut, Elapsed: 60 * time.Second})
	r.ObserveAttempt(types.FailoverAttempt{Candidate: 35, Outcome: types.AttemptApplyFailed})
	r.ObserveAttempt(types.FailoverAttempt{Candidate: 240, Outcome: types.AttemptConnected, Elapsed: 5 * time.Second})
	r.ObserveSweep(failover.Sweep{Outcome: failover.OutcomeConnected})
	r.ObserveSweep(failover.Sweep{Outcome: failover.OutcomeLinkUp})
	r.ObserveSweep(failover.Sweep{Outcome: failover.OutcomeLinkUp})

	assert.Equal(t, float64(4), testutil.ToFloat64(r.state))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.linkUp))
	assert.Equal(t, float64(240), testutil.ToFloat64(r.currentVLAN))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.attempts.WithLabelValues("timed_out")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.attempts.WithLabelValues("apply_failed")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.sweeps.WithLabelValues("link_up")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.attemptWait))

	r.ObserveLink(types.LinkDown)
	assert.Equal(t, float64(0), testutil.ToFloat64(r.linkUp))

	expected := `
# HELP wanguard_sweeps_total Failover cycles by outcome
# TYPE wanguard_sweeps_total counter
wanguard_sweeps_total{outcome="connected"} 1
wanguard_sweeps_total{outcome="link_up"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "wanguard_sweeps_total"))
}

func TestServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.ObserveLink(types.LinkUp)

	srv := NewServer(":0", reg)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wanguard_link_up 1")

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
