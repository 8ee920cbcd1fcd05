package types

import (
	"context"
	"time"
)

// Driver selects the implementation behind a collaborator
type Driver string

const (
	DriverSSH      Driver = "ssh"
	DriverRouterOS Driver = "routeros"
	DriverSNMP     Driver = "snmp"
	DriverMock     Driver = "mock" // For testing/simulation
)

// ProbeMethod selects how the PPPoE link state is read from the router
type ProbeMethod string

const (
	ProbeMethodAPI  ProbeMethod = "api"
	ProbeMethodSNMP ProbeMethod = "snmp"
)

// Vendor represents the ONT vendor, which decides the prompt and discovery command
type Vendor string

const (
	VendorRealtek Vendor = "realtek" // RTL960x based SFP ONT sticks
	VendorGeneric Vendor = "generic"
)

// EquipmentConfig contains connection settings for one managed device
type EquipmentConfig struct {
	// Name is a unique identifier for this equipment
	Name string

	// Vendor is the equipment vendor
	Vendor Vendor

	// Address is the management IP/hostname
	Address string

	// Port is the management port (if not default)
	Port int

	// Username for authentication
	Username string

	// Password for authentication
	Password string

	// TLSEnabled indicates if TLS should be used
	TLSEnabled bool

	// TLSSkipVerify skips TLS certificate verification (insecure, for testing)
	TLSSkipVerify bool

	// TLSSkipHostnameVerify verifies the certificate chain but not the hostname
	TLSSkipHostnameVerify bool

	// Timeout for operations
	Timeout time.Duration

	// Metadata contains driver-specific configuration
	Metadata map[string]string
}

// LinkState is the operational state of a named interface at query time
type LinkState int

const (
	LinkDown LinkState = iota
	LinkUp
)

func (s LinkState) String() string {
	if s == LinkUp {
		return "up"
	}
	return "down"
}

// LinkStatusProbe reads the operational state of a PPPoE client interface.
// Every call opens and closes its own control-endpoint session.
type LinkStatusProbe interface {
	// Query returns LinkUp only when the interface exists and is running.
	// On any failure it returns LinkDown together with a *DeviceError.
	Query(ctx context.Context, interfaceName string) (LinkState, error)
}

// VlanDiscoverer enumerates the VLAN IDs presented by the ONT
type VlanDiscoverer interface {
	// Discover returns candidates in the order the device printed them.
	// On any failure it returns nil together with a *DeviceError.
	Discover(ctx context.Context) ([]VlanCandidate, error)
}

// VlanApplier writes VLAN tags to the router. A sweep acquires one
// ApplySession and reuses it for every candidate.
type VlanApplier interface {
	// Begin opens a control-endpoint session
	Begin(ctx context.Context) (ApplySession, error)
}

// ApplySession is a control-endpoint session scoped to one sweep
type ApplySession interface {
	// Apply sets the VLAN tag of the named VLAN interface
	Apply(ctx context.Context, interfaceName string, vid VlanCandidate) error

	// Close releases the session; it is safe to call more than once
	Close() error
}

// AttemptOutcome is the result of trying one candidate
type AttemptOutcome string

const (
	AttemptConnected   AttemptOutcome = "connected"
	AttemptTimedOut    AttemptOutcome = "timed_out"
	AttemptApplyFailed AttemptOutcome = "apply_failed"
	AttemptAborted     AttemptOutcome = "aborted"
)

// FailoverAttempt records one candidate trial within a sweep
type FailoverAttempt struct {
	// Candidate is the VLAN ID that was applied
	Candidate VlanCandidate

	// Outcome is how the trial ended
	Outcome AttemptOutcome

	// Elapsed is the time spent waiting for the link after applying
	Elapsed time.Duration

	// Checks is the number of link status queries performed
	Checks int

	// Err is set when Outcome is AttemptApplyFailed
	Err error
}
