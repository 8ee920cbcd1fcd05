package types

import (
	"fmt"
	"strconv"
)

// VLAN ID bounds (IEEE 802.1Q, 0 and 4095 are reserved)
const (
	MinVLANID = 1
	MaxVLANID = 4094
)

// VlanCandidate is a VLAN ID reported by the ONT, tried in discovery order
type VlanCandidate int

// Valid reports whether the ID can be written to a VLAN interface
func (v VlanCandidate) Valid() bool {
	return v >= MinVLANID && v <= MaxVLANID
}

func (v VlanCandidate) String() string {
	return strconv.Itoa(int(v))
}

// ValidateVLAN returns an INVALID_VLAN_ID error for reserved or out-of-range IDs
func ValidateVLAN(v VlanCandidate) error {
	if !v.Valid() {
		return &DeviceError{
			Code:    ErrInvalidVLANID,
			Op:      "validate",
			Message: fmt.Sprintf("VLAN ID %d outside %d-%d", int(v), MinVLANID, MaxVLANID),
		}
	}
	return nil
}

// Dedupe drops repeated IDs, keeping the first occurrence and the original order.
func Dedupe(candidates []VlanCandidate) []VlanCandidate {
	seen := make(map[VlanCandidate]struct{}, len(candidates))
	out := make([]VlanCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
