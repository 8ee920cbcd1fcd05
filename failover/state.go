package failover

import (
	"time"

	"github.com/nanoncore/nano-wanguard/types"
)

// State is the position of the orchestrator in its cycle
type State int

const (
	StateIdle State = iota
	StateChecking
	StateDiscovering
	StateApplyingCandidate
	StateWaitingForLink
	StateSweepExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateDiscovering:
		return "discovering"
	case StateApplyingCandidate:
		return "applying_candidate"
	case StateWaitingForLink:
		return "waiting_for_link"
	case StateSweepExhausted:
		return "sweep_exhausted"
	default:
		return "unknown"
	}
}

// Outcome is how one cycle ended
type Outcome string

const (
	// OutcomeLinkUp means the link was up and nothing was changed
	OutcomeLinkUp Outcome = "link_up"
	// OutcomeNoCandidates means discovery yielded nothing to try
	OutcomeNoCandidates Outcome = "no_candidates"
	// OutcomeConnected means a candidate brought the link up
	OutcomeConnected Outcome = "connected"
	// OutcomeExhausted means every candidate was tried without success
	OutcomeExhausted Outcome = "exhausted"
	// OutcomeRouterUnavailable means no apply session could be opened
	OutcomeRouterUnavailable Outcome = "router_unavailable"
	// OutcomeAborted means the context was cancelled mid sweep
	OutcomeAborted Outcome = "aborted"
)

// Sweep records one cycle. It is discarded once the cycle is logged
// and observed.
type Sweep struct {
	Started    time.Time
	Elapsed    time.Duration
	Outcome    Outcome
	Candidates []types.VlanCandidate
	Attempts   []types.FailoverAttempt
}

// Connected returns the candidate that brought the link up, if any
func (s Sweep) Connected() (types.VlanCandidate, bool) {
	for _, a := range s.Attempts {
		if a.Outcome == types.AttemptConnected {
			return a.Candidate, true
		}
	}
	return 0, false
}
