package mikrotik

import (
	"context"
	"fmt"
	"time"

	"github.com/nanoncore/nano-wanguard/types"
)

// Driver talks to a MikroTik router over the RouterOS API.
// It implements types.LinkStatusProbe and types.VlanApplier.
type Driver struct {
	config *types.EquipmentConfig
	dial   Dialer
}

// NewDriver creates a new RouterOS API driver
func NewDriver(config *types.EquipmentConfig) (*Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	// Default API port
	if config.Port == 0 {
		config.Port = DefaultPort
		if config.TLSEnabled {
			config.Port = DefaultTLSPort
		}
	}

	// Default timeout
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Driver{
		config: config,
		dial:   Dial,
	}, nil
}

// Query opens a short-lived session and reads the "running" flag of the
// named interface. Any failure reports LinkDown along with the cause.
func (d *Driver) Query(ctx context.Context, interfaceName string) (types.LinkState, error) {
	session, err := d.dial(ctx, d.config)
	if err != nil {
		return types.LinkDown, err
	}
	defer session.Close()

	running, err := session.InterfaceRunning(interfaceName)
	if err != nil || !running {
		return types.LinkDown, err
	}
	return types.LinkUp, nil
}

// Begin opens the session a sweep uses for all of its candidates
func (d *Driver) Begin(ctx context.Context) (types.ApplySession, error) {
	session, err := d.dial(ctx, d.config)
	if err != nil {
		return nil, err
	}
	return &applySession{session: session, ids: make(map[string]string)}, nil
}

// applySession caches the .id of each VLAN interface once it has been found
type applySession struct {
	session *Session
	ids     map[string]string
}

// Apply sets the VLAN tag of the named VLAN interface
func (a *applySession) Apply(ctx context.Context, interfaceName string, vid types.VlanCandidate) error {
	if err := types.ValidateVLAN(vid); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return types.ClassifyError("apply", err)
	}

	id, ok := a.ids[interfaceName]
	if !ok {
		found, _, err := a.session.FindVLAN(interfaceName)
		if err != nil {
			return err
		}
		id = found
		a.ids[interfaceName] = id
	}

	return a.session.SetVLANID(id, vid)
}

func (a *applySession) Close() error {
	return a.session.Close()
}

// Ensure Driver implements the router-side contracts
var (
	_ types.LinkStatusProbe = (*Driver)(nil)
	_ types.VlanApplier     = (*Driver)(nil)
)
