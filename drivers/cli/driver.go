package cli

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/nanoncore/nano-wanguard/types"
	"github.com/nanoncore/nano-wanguard/vendors/common"
)

// Driver discovers VLAN IDs by scraping the ONT shell over SSH.
// It implements types.VlanDiscoverer.
type Driver struct {
	config   *types.EquipmentConfig
	command  string
	promptRE *regexp.Regexp
	session  *ExpectSession

	// open establishes the shell session; replaced in tests
	open func(ctx context.Context, d *Driver) (*ExpectSession, error)
}

// NewDriver creates a new ONT CLI driver
func NewDriver(config *types.EquipmentConfig) (*Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	// Default SSH port
	if config.Port == 0 {
		config.Port = 22
	}

	// Default timeout
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	if config.Vendor == "" {
		config.Vendor = types.VendorRealtek
	}

	command := common.GetMetadataStringWithDefault(config.Metadata, DiscoveryCommands[config.Vendor], common.MetaDiscoveryCommand)
	if command == "" {
		return nil, fmt.Errorf("no discovery command for vendor %s", config.Vendor)
	}

	promptRE, ok := VendorPrompts[config.Vendor]
	if !ok {
		promptRE = DefaultPromptPattern
	}
	if prompt, ok := common.GetMetadataString(config.Metadata, common.MetaPrompt); ok && prompt != "" {
		promptRE = LiteralPrompt(prompt)
	}

	return &Driver{
		config:   config,
		command:  command,
		promptRE: promptRE,
		open:     openSSHSession,
	}, nil
}

func openSSHSession(ctx context.Context, d *Driver) (*ExpectSession, error) {
	client, err := dialSSH(ctx, d.config)
	if err != nil {
		return nil, err
	}

	session, err := NewExpectSession(ExpectSessionConfig{
		SSHClient: client,
		Prompt:    d.promptRE,
		Timeout:   d.config.Timeout,
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return session, nil
}

// Connect opens the shell and waits for the first prompt
func (d *Driver) Connect(ctx context.Context) error {
	session, err := d.open(ctx, d)
	if err != nil {
		return err
	}
	d.session = session
	return nil
}

// Disconnect closes the shell and the SSH connection
func (d *Driver) Disconnect(ctx context.Context) error {
	if d.session == nil {
		return nil
	}
	err := d.session.Close()
	d.session = nil
	return err
}

// IsConnected returns true if a shell session is open
func (d *Driver) IsConnected() bool {
	return d.session != nil
}

// Discover runs the discovery command once and returns the VIDs it printed
func (d *Driver) Discover(ctx context.Context) ([]types.VlanCandidate, error) {
	if err := d.Connect(ctx); err != nil {
		return nil, err
	}
	defer d.Disconnect(ctx)

	output, err := d.execCommand(ctx, d.command)
	if err != nil {
		return nil, err
	}

	vids := common.ExtractVIDs(output)
	if len(vids) == 0 {
		return nil, types.NewError(types.ErrParseFailed, "discover",
			fmt.Sprintf("no VID in output of %q", d.command), nil)
	}
	return vids, nil
}

// execCommand executes a CLI command on the open shell
func (d *Driver) execCommand(ctx context.Context, command string) (string, error) {
	if !d.IsConnected() {
		return "", fmt.Errorf("not connected to device")
	}
	if err := ctx.Err(); err != nil {
		return "", types.ClassifyError("execute", err)
	}
	return d.session.Execute(command)
}

// Ensure Driver implements VlanDiscoverer
var _ types.VlanDiscoverer = (*Driver)(nil)
