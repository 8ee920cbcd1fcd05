package failover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nanoncore/nano-wanguard/pkg/logger"
	"github.com/nanoncore/nano-wanguard/types"
)

// Default timings of the failover cycle
const (
	DefaultInterval    = 60 * time.Second
	DefaultConnectWait = 60 * time.Second
	DefaultCheckDelay  = 5 * time.Second
)

// Deps are the collaborators of the orchestrator
type Deps struct {
	Probe      types.LinkStatusProbe
	Discoverer types.VlanDiscoverer
	Applier    types.VlanApplier
	Logger     logger.Interface
}

// Settings are the immutable parameters of the cycle
type Settings struct {
	// VlanInterface is the router VLAN interface candidates are written to
	VlanInterface string

	// PPPoEInterface is the PPPoE client whose state is watched
	PPPoEInterface string

	// Interval is the pause between cycles
	Interval time.Duration

	// ConnectWait is how long each candidate is given to bring the link up
	ConnectWait time.Duration

	// CheckDelay is the pause between link checks while waiting
	CheckDelay time.Duration

	// Deduplicate drops repeated candidates, keeping the first occurrence
	Deduplicate bool
}

// Recorder observes the orchestrator. Implementations must not block.
type Recorder interface {
	SetState(State)
	ObserveLink(types.LinkState)
	SetCurrentVLAN(types.VlanCandidate)
	ObserveAttempt(types.FailoverAttempt)
	ObserveSweep(Sweep)
}

type nopRecorder struct{}

func (nopRecorder) SetState(State)                       {}
func (nopRecorder) ObserveLink(types.LinkState)          {}
func (nopRecorder) SetCurrentVLAN(types.VlanCandidate)   {}
func (nopRecorder) ObserveAttempt(types.FailoverAttempt) {}
func (nopRecorder) ObserveSweep(Sweep)                   {}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithRecorder attaches a Recorder
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// Orchestrator keeps the PPPoE link up by walking the VLAN IDs the ONT
// presents until one of them brings the link up. Cycles never overlap.
type Orchestrator struct {
	deps     Deps
	settings Settings
	clock    Clock
	recorder Recorder

	cycle sync.Mutex

	mu    sync.RWMutex
	state State
}

// New creates an orchestrator
func New(deps Deps, settings Settings, opts ...Option) (*Orchestrator, error) {
	if deps.Probe == nil || deps.Discoverer == nil || deps.Applier == nil {
		return nil, errors.New("probe, discoverer and applier are required")
	}
	if deps.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if settings.VlanInterface == "" || settings.PPPoEInterface == "" {
		return nil, errors.New("interface names are required")
	}

	if settings.Interval == 0 {
		settings.Interval = DefaultInterval
	}
	if settings.ConnectWait == 0 {
		settings.ConnectWait = DefaultConnectWait
	}
	if settings.CheckDelay == 0 {
		settings.CheckDelay = DefaultCheckDelay
	}
	if settings.Interval < 0 || settings.ConnectWait < 0 || settings.CheckDelay < 0 {
		return nil, errors.New("durations must be positive")
	}
	if settings.CheckDelay > settings.ConnectWait {
		return nil, fmt.Errorf("check delay %s exceeds connect wait %s", settings.CheckDelay, settings.ConnectWait)
	}

	o := &Orchestrator{
		deps:     deps,
		settings: settings,
		clock:    realClock{},
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// State returns the current state
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.recorder.SetState(s)
}

// Run performs a cycle, then sleeps the interval, until ctx is cancelled
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log().Info("Starting VLAN failover loop",
		"interval", o.settings.Interval.String(),
		"connect_wait", o.settings.ConnectWait.String(),
		"check_delay", o.settings.CheckDelay.String())

	for {
		o.Tick(ctx)
		if ctx.Err() != nil {
			o.log().Info("Stopping VLAN failover loop")
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			o.log().Info("Stopping VLAN failover loop")
			return ctx.Err()
		case <-o.clock.After(o.settings.Interval):
		}
	}
}

// Tick runs one cycle: check the link and, if it is down, sweep the
// discovered candidates. It returns the record of the cycle.
func (o *Orchestrator) Tick(ctx context.Context) Sweep {
	o.cycle.Lock()
	defer o.cycle.Unlock()

	sweep := Sweep{Started: o.clock.Now()}
	sweep.Outcome = o.sweep(ctx, &sweep)
	sweep.Elapsed = o.clock.Now().Sub(sweep.Started)

	o.setState(StateIdle)
	o.recorder.ObserveSweep(sweep)

	return sweep
}

func (o *Orchestrator) sweep(ctx context.Context, sweep *Sweep) Outcome {
	log := o.log()

	o.setState(StateChecking)
	state := o.checkLink(ctx)
	if state == types.LinkUp {
		log.Info("PPPoE client is connected",
			"next_check", o.settings.Interval.String())
		return OutcomeLinkUp
	}
	log.Info("PPPoE client is not connected, proceeding to update VLAN IDs")

	o.setState(StateDiscovering)
	candidates, err := o.deps.Discoverer.Discover(ctx)
	if err != nil {
		log.Error("Failed to get VLAN IDs from the ONT", "code", string(types.CodeOf(err)), "recoverable", types.IsRecoverable(err), "error", err)
	}
	if len(candidates) == 0 {
		log.Error("No VLAN IDs extracted, skipping router update")
		return OutcomeNoCandidates
	}
	log.Info("Extracted VLAN IDs", "vids", candidates)

	if o.settings.Deduplicate {
		unique := types.Dedupe(candidates)
		if len(unique) != len(candidates) {
			log.Debug("Dropped repeated VLAN IDs", "vids", unique)
		}
		candidates = unique
	}
	sweep.Candidates = candidates

	session, err := o.deps.Applier.Begin(ctx)
	if err != nil {
		log.Error("Failed to connect to the router API", "code", string(types.CodeOf(err)), "recoverable", types.IsRecoverable(err), "error", err)
		return OutcomeRouterUnavailable
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Debug("Failed to close router session", "error", err)
		}
	}()

	for _, vid := range candidates {
		if ctx.Err() != nil {
			return OutcomeAborted
		}

		attempt := o.try(ctx, session, vid)
		sweep.Attempts = append(sweep.Attempts, attempt)
		o.recorder.ObserveAttempt(attempt)

		switch attempt.Outcome {
		case types.AttemptConnected:
			log.Info("PPPoE client connected", "vid", int(vid), "elapsed", attempt.Elapsed.String())
			return OutcomeConnected
		case types.AttemptAborted:
			return OutcomeAborted
		case types.AttemptTimedOut:
			log.Info("PPPoE client did not connect, trying next VLAN ID", "vid", int(vid), "elapsed", attempt.Elapsed.String())
		}
	}

	o.setState(StateSweepExhausted)
	log.Error("None of the VLAN IDs resulted in the PPPoE client connecting", "vids", candidates)
	return OutcomeExhausted
}

// try applies one candidate and waits for the link
func (o *Orchestrator) try(ctx context.Context, session types.ApplySession, vid types.VlanCandidate) types.FailoverAttempt {
	log := o.log().With("vid", int(vid))

	o.setState(StateApplyingCandidate)
	log.Info("Setting VLAN ID")
	if err := session.Apply(ctx, o.settings.VlanInterface, vid); err != nil {
		log.Error("Failed to set VLAN ID", "code", string(types.CodeOf(err)), "recoverable", types.IsRecoverable(err), "error", err)
		return types.FailoverAttempt{Candidate: vid, Outcome: types.AttemptApplyFailed, Err: err}
	}
	o.recorder.SetCurrentVLAN(vid)
	log.Info("Updated VLAN interface")

	o.setState(StateWaitingForLink)
	return o.waitForLink(ctx, vid, log)
}

// waitForLink checks the link every CheckDelay until it is up or
// ConnectWait has passed since the candidate was applied
func (o *Orchestrator) waitForLink(ctx context.Context, vid types.VlanCandidate, log fieldLogger) types.FailoverAttempt {
	attempt := types.FailoverAttempt{Candidate: vid, Outcome: types.AttemptTimedOut}
	start := o.clock.Now()

	for o.clock.Now().Sub(start) < o.settings.ConnectWait {
		attempt.Checks++
		if o.checkLink(ctx) == types.LinkUp {
			attempt.Outcome = types.AttemptConnected
			attempt.Elapsed = o.clock.Now().Sub(start)
			return attempt
		}

		log.Info("Waiting for PPPoE client to connect",
			"elapsed", o.clock.Now().Sub(start).String())

		if ctx.Err() != nil {
			return o.aborted(attempt, start)
		}
		select {
		case <-ctx.Done():
			return o.aborted(attempt, start)
		case <-o.clock.After(o.settings.CheckDelay):
		}
	}

	attempt.Elapsed = o.clock.Now().Sub(start)
	return attempt
}

func (o *Orchestrator) aborted(attempt types.FailoverAttempt, start time.Time) types.FailoverAttempt {
	attempt.Outcome = types.AttemptAborted
	attempt.Elapsed = o.clock.Now().Sub(start)
	return attempt
}

// checkLink queries the probe. Failures read as down.
func (o *Orchestrator) checkLink(ctx context.Context) types.LinkState {
	state, err := o.deps.Probe.Query(ctx, o.settings.PPPoEInterface)
	if err != nil {
		o.log().Warn("Failed to check PPPoE interface status",
			"code", string(types.CodeOf(err)), "recoverable", types.IsRecoverable(err), "error", err)
		state = types.LinkDown
	}
	o.recorder.ObserveLink(state)
	return state
}

func (o *Orchestrator) log() fieldLogger {
	return fieldLogger{
		l: o.deps.Logger,
		fields: []interface{}{
			"pppoe_interface", o.settings.PPPoEInterface,
			"vlan_interface", o.settings.VlanInterface,
		},
	}
}

// fieldLogger prepends fixed fields to every entry
type fieldLogger struct {
	l      logger.Interface
	fields []interface{}
}

func (f fieldLogger) With(args ...interface{}) fieldLogger {
	fields := make([]interface{}, 0, len(f.fields)+len(args))
	fields = append(fields, f.fields...)
	return fieldLogger{l: f.l, fields: append(fields, args...)}
}

func (f fieldLogger) args(args []interface{}) []interface{} {
	return append(append(make([]interface{}, 0, len(f.fields)+len(args)), f.fields...), args...)
}

func (f fieldLogger) Debug(msg string, args ...interface{}) { f.l.Debug(msg, f.args(args)...) }
func (f fieldLogger) Info(msg string, args ...interface{})  { f.l.Info(msg, f.args(args)...) }
func (f fieldLogger) Warn(msg string, args ...interface{})  { f.l.Warn(msg, f.args(args)...) }
func (f fieldLogger) Error(msg string, args ...interface{}) { f.l.Error(msg, f.args(args)...) }
