package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/nanoncore/nano-wanguard/types"
	"github.com/nanoncore/nano-wanguard/vendors/common"
)

// Router simulates a MikroTik router with one VLAN interface and one PPPoE
// client. The PPPoE link comes up only while a working VID is applied.
// It implements types.LinkStatusProbe and types.VlanApplier.
type Router struct {
	mu             sync.RWMutex
	vlanInterface  string
	pppoeInterface string
	working        map[types.VlanCandidate]bool
	linkUpAfter    int

	current      types.VlanCandidate
	queriesSince int
	applied      []types.VlanCandidate
	sessions     int
	openSessions int
	cmdHistory   []string
}

// NewRouter creates a router simulator. Metadata keys:
//
//	vlan_interface      name of the VLAN interface (default vlan35)
//	pppoe_interface     name of the PPPoE client (default pppoe-wan)
//	mock_working_vids   comma separated VIDs the simulated ISP accepts
//	mock_link_up_after  link queries after an apply before the link is up
func NewRouter(config *types.EquipmentConfig) (*Router, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	working, err := parseVIDList(common.GetMetadataStringWithDefault(config.Metadata, "", common.MetaMockWorkingVID))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", common.MetaMockWorkingVID, err)
	}

	linkUpAfter := 0
	if v, ok := common.GetMetadataString(config.Metadata, common.MetaMockLinkDelay); ok && v != "" {
		linkUpAfter, err = strconv.Atoi(v)
		if err != nil || linkUpAfter < 0 {
			return nil, fmt.Errorf("invalid %s: %q", common.MetaMockLinkDelay, v)
		}
	}

	r := &Router{
		vlanInterface:  common.GetMetadataStringWithDefault(config.Metadata, "vlan35", common.MetaVLANInterface),
		pppoeInterface: common.GetMetadataStringWithDefault(config.Metadata, "pppoe-wan", common.MetaPPPoEInterface),
		working:        make(map[types.VlanCandidate]bool, len(working)),
		linkUpAfter:    linkUpAfter,
		cmdHistory:     make([]string, 0),
	}
	for _, vid := range working {
		r.working[vid] = true
	}

	return r, nil
}

// Query reports the simulated PPPoE state. Each call counts as one session.
func (r *Router) Query(ctx context.Context, interfaceName string) (types.LinkState, error) {
	if err := ctx.Err(); err != nil {
		return types.LinkDown, types.ClassifyError("query", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions++
	r.recordCommand("/interface/print ?name=" + interfaceName)

	if interfaceName != r.pppoeInterface {
		return types.LinkDown, types.NewError(types.ErrInterfaceNotFound, "query",
			fmt.Sprintf("interface %s not found", interfaceName), nil)
	}

	r.queriesSince++
	if r.working[r.current] && r.queriesSince > r.linkUpAfter {
		return types.LinkUp, nil
	}
	return types.LinkDown, nil
}

// Begin opens a simulated API session
func (r *Router) Begin(ctx context.Context) (types.ApplySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, types.ClassifyError("begin", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions++
	r.openSessions++
	return &routerSession{router: r}, nil
}

type routerSession struct {
	router *Router
	closed bool
}

func (s *routerSession) Apply(ctx context.Context, interfaceName string, vid types.VlanCandidate) error {
	if err := types.ValidateVLAN(vid); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return types.ClassifyError("apply", err)
	}

	r := s.router
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.closed {
		return types.NewError(types.ErrConnReset, "apply", "session is closed", nil)
	}

	r.recordCommand("/interface/vlan/print ?name=" + interfaceName)
	if interfaceName != r.vlanInterface {
		return types.NewError(types.ErrInterfaceNotFound, "apply",
			fmt.Sprintf("interface %s not found", interfaceName), nil)
	}

	r.recordCommand(fmt.Sprintf("/interface/vlan/set =.id=*1 =vlan-id=%d", vid))
	r.current = vid
	r.queriesSince = 0
	r.applied = append(r.applied, vid)
	return nil
}

func (s *routerSession) Close() error {
	r := s.router
	r.mu.Lock()
	defer r.mu.Unlock()

	if !s.closed {
		s.closed = true
		r.openSessions--
	}
	return nil
}

// CurrentVID returns the tag currently set on the VLAN interface
func (r *Router) CurrentVID() types.VlanCandidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Applied returns every VID written, in order
func (r *Router) Applied() []types.VlanCandidate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	applied := make([]types.VlanCandidate, len(r.applied))
	copy(applied, r.applied)
	return applied
}

// Sessions returns how many sessions were opened and how many are still open
func (r *Router) Sessions() (opened, open int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions, r.openSessions
}

// GetCommandHistory returns the command history (useful for testing)
func (r *Router) GetCommandHistory() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history := make([]string, len(r.cmdHistory))
	copy(history, r.cmdHistory)
	return history
}

func (r *Router) recordCommand(cmd string) {
	r.cmdHistory = append(r.cmdHistory, cmd)
}

func parseVIDList(s string) ([]types.VlanCandidate, error) {
	var vids []types.VlanCandidate
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("not a VLAN ID: %q", field)
		}
		vids = append(vids, types.VlanCandidate(n))
	}
	return vids, nil
}

// Ensure Router implements the router-side contracts
var (
	_ types.LinkStatusProbe = (*Router)(nil)
	_ types.VlanApplier     = (*Router)(nil)
)
