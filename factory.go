package wanguard

import (
	"fmt"
	"strconv"

	"github.com/nanoncore/nano-wanguard/config"
	"github.com/nanoncore/nano-wanguard/drivers/cli"
	"github.com/nanoncore/nano-wanguard/drivers/mikrotik"
	"github.com/nanoncore/nano-wanguard/drivers/mock"
	"github.com/nanoncore/nano-wanguard/drivers/snmp"
	"github.com/nanoncore/nano-wanguard/vendors/common"
)

// CapabilityMatrix defines which contracts each driver implements
var CapabilityMatrix = map[Driver]DriverCapabilities{
	DriverSSH: {
		Discover: true,
	},
	DriverRouterOS: {
		Probe: true,
		Apply: true,
	},
	DriverSNMP: {
		Probe: true,
	},
	DriverMock: {
		Probe:    true,
		Discover: true,
		Apply:    true,
	},
}

// DriverCapabilities defines what a driver can be used for
type DriverCapabilities struct {
	Probe    bool
	Discover bool
	Apply    bool
}

// Drivers are the collaborators of one failover loop
type Drivers struct {
	Probe      LinkStatusProbe
	Discoverer VlanDiscoverer
	Applier    VlanApplier
}

// NewDrivers builds every collaborator from cfg. With the mock router the
// probe and the applier share one simulator, so applied VIDs drive the
// simulated link.
func NewDrivers(cfg *config.Config) (*Drivers, error) {
	discoverer, err := NewDiscoverer(cfg)
	if err != nil {
		return nil, err
	}

	if Driver(cfg.Router.Driver) == DriverMock {
		router, err := mock.NewRouter(RouterConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s driver: %w", DriverMock, err)
		}
		return &Drivers{Probe: router, Discoverer: discoverer, Applier: router}, nil
	}

	probe, err := NewProbe(cfg)
	if err != nil {
		return nil, err
	}
	applier, err := NewApplier(cfg)
	if err != nil {
		return nil, err
	}

	return &Drivers{Probe: probe, Discoverer: discoverer, Applier: applier}, nil
}

// NewProbe creates the PPPoE link probe selected by ROUTER_DRIVER and LINK_PROBE
func NewProbe(cfg *config.Config) (LinkStatusProbe, error) {
	driver := Driver(cfg.Router.Driver)
	if driver != DriverMock && ProbeMethod(cfg.Router.Probe) == ProbeMethodSNMP {
		driver = DriverSNMP
	}
	if err := checkCapability(driver, func(c DriverCapabilities) bool { return c.Probe }); err != nil {
		return nil, err
	}

	var (
		probe LinkStatusProbe
		err   error
	)
	switch driver {
	case DriverRouterOS:
		probe, err = mikrotik.NewDriver(RouterConfig(cfg))
	case DriverSNMP:
		probe, err = snmp.NewDriver(SNMPConfig(cfg))
	case DriverMock:
		probe, err = mock.NewRouter(RouterConfig(cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", driver, err)
	}

	return probe, nil
}

// NewDiscoverer creates the ONT driver selected by ONT_DRIVER
func NewDiscoverer(cfg *config.Config) (VlanDiscoverer, error) {
	driver := Driver(cfg.ONT.Driver)
	if err := checkCapability(driver, func(c DriverCapabilities) bool { return c.Discover }); err != nil {
		return nil, err
	}

	var (
		discoverer VlanDiscoverer
		err        error
	)
	switch driver {
	case DriverSSH:
		discoverer, err = cli.NewDriver(ONTConfig(cfg))
	case DriverMock:
		discoverer, err = mock.NewONT(ONTConfig(cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", driver, err)
	}

	return discoverer, nil
}

// NewApplier creates the router driver selected by ROUTER_DRIVER
func NewApplier(cfg *config.Config) (VlanApplier, error) {
	driver := Driver(cfg.Router.Driver)
	if err := checkCapability(driver, func(c DriverCapabilities) bool { return c.Apply }); err != nil {
		return nil, err
	}

	var (
		applier VlanApplier
		err     error
	)
	switch driver {
	case DriverRouterOS:
		applier, err = mikrotik.NewDriver(RouterConfig(cfg))
	case DriverMock:
		applier, err = mock.NewRouter(RouterConfig(cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", driver, err)
	}

	return applier, nil
}

func checkCapability(driver Driver, has func(DriverCapabilities) bool) error {
	caps, ok := CapabilityMatrix[driver]
	if !ok {
		return fmt.Errorf("unsupported driver: %s", driver)
	}
	if !has(caps) {
		return fmt.Errorf("driver %s does not support this role", driver)
	}
	return nil
}

// ONTConfig maps the ONT settings onto an EquipmentConfig
func ONTConfig(cfg *config.Config) *EquipmentConfig {
	return &EquipmentConfig{
		Name:     "ont",
		Vendor:   Vendor(cfg.ONT.Vendor),
		Address:  cfg.ONT.Host,
		Port:     cfg.ONT.Port,
		Username: cfg.ONT.User,
		Password: cfg.ONT.Password,
		Timeout:  cfg.ONT.PromptTimeout,
		Metadata: map[string]string{
			common.MetaPrompt:           cfg.ONT.Prompt,
			common.MetaDiscoveryCommand: cfg.ONT.Command,
			common.MetaCiphers:          cfg.ONT.Ciphers,
			common.MetaKeyExchanges:     cfg.ONT.KeyExchanges,
			common.MetaHostKeyAlgos:     cfg.ONT.HostKeyAlgorithms,
			common.MetaKnownHosts:       cfg.ONT.KnownHosts,
			common.MetaMockVIDs:         cfg.Mock.ONTVIDs,
		},
	}
}

// RouterConfig maps the router API settings onto an EquipmentConfig
func RouterConfig(cfg *config.Config) *EquipmentConfig {
	return &EquipmentConfig{
		Name:                  "router",
		Address:               cfg.Router.Host,
		Port:                  cfg.Router.Port,
		Username:              cfg.Router.User,
		Password:              cfg.Router.Password,
		TLSEnabled:            cfg.Router.UseSSL,
		TLSSkipVerify:         !cfg.Router.SSLVerify,
		TLSSkipHostnameVerify: cfg.Router.SSLVerify && !cfg.Router.SSLVerifyHostname,
		Timeout:               cfg.Router.Timeout,
		Metadata: map[string]string{
			common.MetaVLANInterface:  cfg.Failover.VlanInterface,
			common.MetaPPPoEInterface: cfg.Failover.PPPoEInterface,
			common.MetaMockWorkingVID: cfg.Mock.WorkingVIDs,
			common.MetaMockLinkDelay:  strconv.Itoa(cfg.Mock.LinkUpAfter),
		},
	}
}

// SNMPConfig maps the router SNMP settings onto an EquipmentConfig
func SNMPConfig(cfg *config.Config) *EquipmentConfig {
	return &EquipmentConfig{
		Name:     "router-snmp",
		Address:  cfg.Router.Host,
		Port:     cfg.Router.SNMPPort,
		Username: cfg.Router.User,
		Password: cfg.Router.Password,
		Timeout:  cfg.Router.Timeout,
		Metadata: map[string]string{
			common.MetaSNMPVersion:   cfg.Router.SNMPVersion,
			common.MetaSNMPCommunity: cfg.Router.SNMPCommunity,
		},
	}
}
