package wanguard

// Re-export types from the types sub-package so callers can use
// wanguard.LinkStatusProbe, wanguard.VlanCandidate, etc.

import (
	"github.com/nanoncore/nano-wanguard/types"
)

// Type aliases
type (
	Driver          = types.Driver
	ProbeMethod     = types.ProbeMethod
	Vendor          = types.Vendor
	EquipmentConfig = types.EquipmentConfig
	LinkState       = types.LinkState
	VlanCandidate   = types.VlanCandidate
	FailoverAttempt = types.FailoverAttempt
	LinkStatusProbe = types.LinkStatusProbe
	VlanDiscoverer  = types.VlanDiscoverer
	VlanApplier     = types.VlanApplier
	ApplySession    = types.ApplySession
	DeviceError     = types.DeviceError
	ErrorCode       = types.ErrorCode
)

// Re-export constants
const (
	DriverSSH      = types.DriverSSH
	DriverRouterOS = types.DriverRouterOS
	DriverSNMP     = types.DriverSNMP
	DriverMock     = types.DriverMock

	ProbeMethodAPI  = types.ProbeMethodAPI
	ProbeMethodSNMP = types.ProbeMethodSNMP

	VendorRealtek = types.VendorRealtek
	VendorGeneric = types.VendorGeneric

	LinkDown = types.LinkDown
	LinkUp   = types.LinkUp
)
