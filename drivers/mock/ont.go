package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nanoncore/nano-wanguard/types"
	"github.com/nanoncore/nano-wanguard/vendors/common"
)

// ONT simulates the ONT shell. Discover renders a VLAN tagging filter dump
// for the configured VIDs and parses it like the SSH driver does.
type ONT struct {
	mu         sync.RWMutex
	vids       []types.VlanCandidate
	calls      int
	cmdHistory []string
}

// NewONT creates an ONT simulator presenting the VIDs listed in the
// mock_vids metadata key (comma separated, duplicates kept)
func NewONT(config *types.EquipmentConfig) (*ONT, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	vids, err := parseVIDList(common.GetMetadataStringWithDefault(config.Metadata, "", common.MetaMockVIDs))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", common.MetaMockVIDs, err)
	}

	return &ONT{vids: vids, cmdHistory: make([]string, 0)}, nil
}

// Discover returns the simulated VIDs in presentation order
func (o *ONT) Discover(ctx context.Context) ([]types.VlanCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, types.ClassifyError("discover", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.calls++
	o.cmdHistory = append(o.cmdHistory, "omcicli mib get 84")

	vids := common.ExtractVIDs(o.generateFilterOutput())
	if len(vids) == 0 {
		return nil, types.NewError(types.ErrParseFailed, "discover", "no VID in command output", nil)
	}
	return vids, nil
}

// SetVIDs replaces the presented VIDs, simulating an ISP retag
func (o *ONT) SetVIDs(vids ...types.VlanCandidate) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vids = append([]types.VlanCandidate(nil), vids...)
}

// Calls returns the number of Discover calls
func (o *ONT) Calls() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.calls
}

// GetCommandHistory returns the command history (useful for testing)
func (o *ONT) GetCommandHistory() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	history := make([]string, len(o.cmdHistory))
	copy(history, o.cmdHistory)
	return history
}

func (o *ONT) generateFilterOutput() string {
	var sb strings.Builder
	sb.WriteString("================================\n")
	sb.WriteString("VlanTagFilterData\n")
	sb.WriteString(fmt.Sprintf("EntityID: 0x%x\n", 0x1102))
	for i, vid := range o.vids {
		sb.WriteString(fmt.Sprintf("FilterTbl[%d]: PRI 0,CFI 0, VID %d\n", i, int(vid)))
	}
	sb.WriteString(fmt.Sprintf("FwdOp: 0x%x\n", 0x10))
	sb.WriteString(fmt.Sprintf("NumOfEntries: %d\n", len(o.vids)))
	return sb.String()
}

// Ensure ONT implements VlanDiscoverer
var _ types.VlanDiscoverer = (*ONT)(nil)
