package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nanoncore/nano-wanguard/failover"
	"github.com/nanoncore/nano-wanguard/types"
)

// Recorder exports the orchestrator state as Prometheus metrics
type Recorder struct {
	linkUp      prometheus.Gauge
	state       prometheus.Gauge
	currentVLAN prometheus.Gauge
	sweeps      *prometheus.CounterVec
	attempts    *prometheus.CounterVec
	attemptWait prometheus.Histogram
}

var _ failover.Recorder = (*Recorder)(nil)

// NewRecorder registers the wanguard metrics with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		linkUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wanguard_link_up",
			Help: "PPPoE client state at the last check (1 = running, 0 = down or unknown)",
		}),
		state: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wanguard_state",
			Help: "Failover state (0 idle, 1 checking, 2 discovering, 3 applying, 4 waiting, 5 exhausted)",
		}),
		currentVLAN: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wanguard_current_vlan_id",
			Help: "VLAN ID most recently written to the router, 0 if none this run",
		}),
		sweeps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanguard_sweeps_total",
				Help: "Failover cycles by outcome",
			},
			[]string{"outcome"},
		),
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanguard_vlan_attempts_total",
				Help: "VLAN candidates tried by outcome",
			},
			[]string{"outcome"},
		),
		attemptWait: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wanguard_vlan_attempt_wait_seconds",
			Help:    "Time spent waiting for the PPPoE client after applying a candidate",
			Buckets: []float64{0, 5, 10, 15, 20, 30, 45, 60, 90},
		}),
	}
}

func (r *Recorder) SetState(s failover.State) {
	r.state.Set(float64(s))
}

func (r *Recorder) ObserveLink(s types.LinkState) {
	if s == types.LinkUp {
		r.linkUp.Set(1)
		return
	}
	r.linkUp.Set(0)
}

func (r *Recorder) SetCurrentVLAN(vid types.VlanCandidate) {
	r.currentVLAN.Set(float64(vid))
}

func (r *Recorder) ObserveAttempt(a types.FailoverAttempt) {
	r.attempts.WithLabelValues(string(a.Outcome)).Inc()
	if a.Outcome != types.AttemptApplyFailed {
		r.attemptWait.Observe(a.Elapsed.Seconds())
	}
}

func (r *Recorder) ObserveSweep(s failover.Sweep) {
	r.sweeps.WithLabelValues(string(s.Outcome)).Inc()
}

// NewServer serves /metrics from gatherer and a /healthz probe
func NewServer(addr string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Add health check endpoint
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
