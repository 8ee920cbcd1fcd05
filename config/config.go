package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// FileEnv names an optional YAML/dotenv file read before the environment
const FileEnv = "WANGUARD_CONFIG_FILE"

type (
	// Config -.
	Config struct {
		App      App      `yaml:"app"`
		ONT      ONT      `yaml:"ont"`
		Router   Router   `yaml:"router"`
		Failover Failover `yaml:"failover"`
		Log      Log      `yaml:"logger"`
		Metrics  Metrics  `yaml:"metrics"`
		Mock     Mock     `yaml:"mock"`
	}

	// App -.
	App struct {
		CheckInterval int `yaml:"check_interval" env:"CHECK_INTERVAL" env-description:"seconds between link checks"`
	}

	// ONT is the shell endpoint VLAN IDs are read from
	ONT struct {
		Driver            string        `yaml:"driver" env:"ONT_DRIVER" env-description:"ssh or mock"`
		Vendor            string        `yaml:"vendor" env:"ONT_VENDOR" env-description:"prompt and command profile: realtek or generic"`
		Host              string        `yaml:"host" env:"SSH_HOST"`
		Port              int           `yaml:"port" env:"SSH_PORT"`
		User              string        `yaml:"user" env:"SSH_USER"`
		Password          string        `yaml:"password" env:"SSH_PASSWORD"`
		Command           string        `yaml:"command" env:"LIST_VIDS_COMMAND" env-description:"command printing the VLAN tagging filter"`
		Prompt            string        `yaml:"prompt" env:"SSH_PROMPT" env-description:"literal shell prompt marker, empty uses the ONT_VENDOR prompt"`
		PromptTimeout     time.Duration `yaml:"prompt_timeout" env:"SSH_PROMPT_TIMEOUT"`
		Ciphers           string        `yaml:"ciphers" env:"SSH_CIPHERS" env-description:"comma list, empty for library defaults"`
		KeyExchanges      string        `yaml:"kex" env:"SSH_KEX" env-description:"comma list, empty for library defaults"`
		HostKeyAlgorithms string        `yaml:"host_key_algorithms" env:"SSH_HOST_KEY_ALGORITHMS" env-description:"comma list, empty for library defaults"`
		KnownHosts        string        `yaml:"known_hosts" env:"SSH_KNOWN_HOSTS" env-description:"known_hosts file, empty accepts any host key"`
	}

	// Router is the MikroTik control endpoint
	Router struct {
		Driver            string        `yaml:"driver" env:"ROUTER_DRIVER" env-description:"routeros or mock"`
		Host              string        `yaml:"host" env:"MIKROTIK_HOST"`
		Port              int           `yaml:"port" env:"MIKROTIK_PORT" env-description:"API port, 0 selects 8728 or 8729 with MIKROTIK_USE_SSL"`
		User              string        `yaml:"user" env:"MIKROTIK_USER"`
		Password          string        `yaml:"password" env:"MIKROTIK_PASSWORD"`
		UseSSL            bool          `yaml:"use_ssl" env:"MIKROTIK_USE_SSL"`
		SSLVerify         bool          `yaml:"ssl_verify" env:"MIKROTIK_SSL_VERIFY"`
		SSLVerifyHostname bool          `yaml:"ssl_verify_hostname" env:"MIKROTIK_SSL_VERIFY_HOSTNAME"`
		Timeout           time.Duration `yaml:"timeout" env:"MIKROTIK_TIMEOUT"`
		Probe             string        `yaml:"probe" env:"LINK_PROBE" env-description:"api or snmp"`
		SNMPPort          int           `yaml:"snmp_port" env:"MIKROTIK_SNMP_PORT"`
		SNMPCommunity     string        `yaml:"snmp_community" env:"MIKROTIK_SNMP_COMMUNITY"`
		SNMPVersion       string        `yaml:"snmp_version" env:"MIKROTIK_SNMP_VERSION" env-description:"1, 2c or 3"`
	}

	// Failover -.
	Failover struct {
		VlanInterface  string        `yaml:"vlan_interface" env:"INTERFACE_NAME"`
		PPPoEInterface string        `yaml:"pppoe_interface" env:"PPPOE_INTERFACE_NAME"`
		ConnectWait    time.Duration `yaml:"connect_wait" env:"CONNECT_WAIT" env-description:"per candidate wait ceiling"`
		CheckDelay     time.Duration `yaml:"check_delay" env:"CONNECT_CHECK_DELAY" env-description:"delay between link checks while waiting"`
		Deduplicate    bool          `yaml:"deduplicate" env:"DEDUPLICATE_CANDIDATES"`
	}

	// Log -.
	Log struct {
		Level  string `yaml:"log_level" env:"LOGGING_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-description:"json or console"`
	}

	// Metrics -.
	Metrics struct {
		Addr string `yaml:"addr" env:"METRICS_ADDR" env-description:"Prometheus listen address, empty disables"`
	}

	// Mock configures the simulators selected with driver=mock
	Mock struct {
		ONTVIDs     string `yaml:"ont_vids" env:"MOCK_ONT_VIDS"`
		WorkingVIDs string `yaml:"working_vids" env:"MOCK_WORKING_VIDS"`
		LinkUpAfter int    `yaml:"link_up_after" env:"MOCK_LINK_UP_AFTER"`
	}
)

// defaultConfig constructs the in-memory default configuration.
func defaultConfig() *Config {
	return &Config{
		App: App{
			CheckInterval: 60,
		},
		ONT: ONT{
			Driver:            "ssh",
			Vendor:            "realtek",
			Port:              22,
			Command:           "omcicli mib get 84",
			PromptTimeout:     30 * time.Second,
			Ciphers:           "3des-cbc",
			KeyExchanges:      "diffie-hellman-group1-sha1",
			HostKeyAlgorithms: "ssh-rsa",
		},
		Router: Router{
			Driver:            "routeros",
			SSLVerify:         true,
			SSLVerifyHostname: true,
			Timeout:           10 * time.Second,
			Probe:             "api",
			SNMPPort:          161,
			SNMPCommunity:     "public",
			SNMPVersion:       "2c",
		},
		Failover: Failover{
			VlanInterface:  "vlan35",
			PPPoEInterface: "pppoe-wan",
			ConnectWait:    60 * time.Second,
			CheckDelay:     5 * time.Second,
		},
		Log: Log{
			Level:  "INFO",
			Format: "json",
		},
		Mock: Mock{
			ONTVIDs:     "10,35,240",
			WorkingVIDs: "35",
			LinkUpAfter: 1,
		},
	}
}

// NewConfig reads the optional config file named by WANGUARD_CONFIG_FILE,
// then the environment, and validates the result.
func NewConfig() (*Config, error) {
	return Load(os.Getenv(FileEnv))
}

// Load reads path (if not empty) and the environment. Environment
// variables take precedence over the file.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		// ReadConfig reads the environment after the file
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Usage describes every environment variable
func Usage() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(defaultConfig(), &header)
}

// CheckInterval is the pause between cycles
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.App.CheckInterval) * time.Second
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.App.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("CHECK_INTERVAL must be positive, got %d", c.App.CheckInterval))
	}

	switch c.ONT.Driver {
	case "ssh":
		if c.ONT.Host == "" {
			errs = append(errs, errors.New("SSH_HOST is required"))
		}
		if c.ONT.Command == "" {
			errs = append(errs, errors.New("LIST_VIDS_COMMAND must not be empty"))
		}
		if c.ONT.PromptTimeout <= 0 {
			errs = append(errs, errors.New("SSH_PROMPT_TIMEOUT must be positive"))
		}
	case "mock":
	default:
		errs = append(errs, fmt.Errorf("unknown ONT_DRIVER %q", c.ONT.Driver))
	}

	switch c.ONT.Vendor {
	case "realtek", "generic":
	default:
		errs = append(errs, fmt.Errorf("unknown ONT_VENDOR %q", c.ONT.Vendor))
	}

	switch c.Router.Driver {
	case "routeros":
		if c.Router.Host == "" {
			errs = append(errs, errors.New("MIKROTIK_HOST is required"))
		}
	case "mock":
	default:
		errs = append(errs, fmt.Errorf("unknown ROUTER_DRIVER %q", c.Router.Driver))
	}

	switch c.Router.Probe {
	case "api":
	case "snmp":
		if c.Router.Driver == "mock" {
			errs = append(errs, errors.New("LINK_PROBE=snmp needs a real router"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LINK_PROBE %q", c.Router.Probe))
	}

	for name, port := range map[string]int{
		"SSH_PORT":           c.ONT.Port,
		"MIKROTIK_PORT":      c.Router.Port,
		"MIKROTIK_SNMP_PORT": c.Router.SNMPPort,
	} {
		if port < 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s out of range: %d", name, port))
		}
	}

	if strings.TrimSpace(c.Failover.VlanInterface) == "" {
		errs = append(errs, errors.New("INTERFACE_NAME must not be empty"))
	}
	if strings.TrimSpace(c.Failover.PPPoEInterface) == "" {
		errs = append(errs, errors.New("PPPOE_INTERFACE_NAME must not be empty"))
	}
	if c.Failover.ConnectWait <= 0 || c.Failover.CheckDelay <= 0 {
		errs = append(errs, errors.New("CONNECT_WAIT and CONNECT_CHECK_DELAY must be positive"))
	} else if c.Failover.CheckDelay > c.Failover.ConnectWait {
		errs = append(errs, fmt.Errorf("CONNECT_CHECK_DELAY %s exceeds CONNECT_WAIT %s",
			c.Failover.CheckDelay, c.Failover.ConnectWait))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
