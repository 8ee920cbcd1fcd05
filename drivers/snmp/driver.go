package snmp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/nanoncore/nano-wanguard/types"
	"github.com/nanoncore/nano-wanguard/vendors/common"
)

// IF-MIB columns
const (
	OIDIfName       = "1.3.6.1.2.1.31.1.1.1.1"
	OIDIfOperStatus = "1.3.6.1.2.1.2.2.1.8"
)

// client is the part of *gosnmp.GoSNMP the probe uses
type client interface {
	Connect() error
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	BulkWalk(rootOid string, walkFn gosnmp.WalkFunc) error
	Close() error
}

type goSNMPClient struct {
	*gosnmp.GoSNMP
}

func (c goSNMPClient) Close() error {
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// Driver reads interface state over SNMP. It implements types.LinkStatusProbe
// and is used when the API port is firewalled or rate limited.
type Driver struct {
	config    *types.EquipmentConfig
	newClient func(config *types.EquipmentConfig) client
}

// NewDriver creates a new SNMP link probe
func NewDriver(config *types.EquipmentConfig) (*Driver, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	// Default SNMP port
	if config.Port == 0 {
		config.Port = 161
	}
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid SNMP port %d", config.Port)
	}

	// Default timeout
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	return &Driver{
		config:    config,
		newClient: newGoSNMP,
	}, nil
}

func newGoSNMP(config *types.EquipmentConfig) client {
	// Get SNMP version from metadata (default v2c)
	version := gosnmp.Version2c
	switch common.GetMetadataStringWithDefault(config.Metadata, "2c", common.MetaSNMPVersion) {
	case "1":
		version = gosnmp.Version1
	case "3":
		version = gosnmp.Version3
	}

	g := &gosnmp.GoSNMP{
		Target:    config.Address,
		Port:      uint16(config.Port), //nolint:gosec // validated in NewDriver
		Community: common.GetMetadataStringWithDefault(config.Metadata, "public", common.MetaSNMPCommunity),
		Version:   version,
		Timeout:   config.Timeout,
		Retries:   1,
	}

	// For SNMPv3, set security parameters
	if version == gosnmp.Version3 {
		g.SecurityModel = gosnmp.UserSecurityModel
		g.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 config.Username,
			AuthenticationProtocol:   gosnmp.SHA,
			AuthenticationPassphrase: config.Password,
			PrivacyProtocol:          gosnmp.AES,
			PrivacyPassphrase:        config.Password,
		}
		g.MsgFlags = gosnmp.AuthPriv
	}

	return goSNMPClient{GoSNMP: g}
}

// Query resolves the interface index by ifName and reads its ifOperStatus
func (d *Driver) Query(ctx context.Context, interfaceName string) (types.LinkState, error) {
	if err := ctx.Err(); err != nil {
		return types.LinkDown, types.ClassifyError("snmp", err)
	}

	c := d.newClient(d.config)
	if err := c.Connect(); err != nil {
		return types.LinkDown, types.ClassifyError("snmp connect", err)
	}
	defer c.Close()

	names, err := walk(c, OIDIfName)
	if err != nil {
		return types.LinkDown, err
	}

	index, ok := common.FindIndexByName(names, interfaceName)
	if !ok {
		return types.LinkDown, types.NewError(types.ErrInterfaceNotFound, "snmp ifName",
			fmt.Sprintf("interface %s not found", interfaceName), nil)
	}

	oid := OIDIfOperStatus + "." + index
	packet, err := c.Get([]string{oid})
	if err != nil {
		return types.LinkDown, types.ClassifyError("snmp get", err)
	}
	values := make(map[string]interface{}, len(packet.Variables))
	for _, v := range packet.Variables {
		values[v.Name] = v
	}
	raw, ok := common.GetSNMPResult(values, oid)
	if !ok {
		return types.LinkDown, types.NewError(types.ErrProtocol, "snmp get", "empty response for "+oid, nil)
	}

	variable := raw.(gosnmp.SnmpPDU)
	switch variable.Type {
	case gosnmp.NoSuchInstance, gosnmp.NoSuchObject:
		return types.LinkDown, types.NewError(types.ErrInterfaceNotFound, "snmp get",
			fmt.Sprintf("no ifOperStatus for %s", interfaceName), nil)
	}

	status, ok := common.ParseIntSNMPValue(variable.Value)
	if !ok {
		return types.LinkDown, types.NewError(types.ErrProtocol, "snmp get",
			fmt.Sprintf("unexpected ifOperStatus value %v", variable.Value), nil)
	}
	if status != common.IfOperStatusUp {
		return types.LinkDown, nil
	}
	return types.LinkUp, nil
}

// walk collects a column into index -> value
func walk(c client, oid string) (map[string]interface{}, error) {
	results := make(map[string]interface{})
	prefix := "." + strings.TrimPrefix(oid, ".") + "."

	err := c.BulkWalk(oid, func(pdu gosnmp.SnmpPDU) error {
		name := pdu.Name
		if !strings.HasPrefix(name, ".") {
			name = "." + name
		}
		index := strings.TrimPrefix(name, prefix)

		if pdu.Type == gosnmp.OctetString {
			if s, ok := common.ParseStringSNMPValue(pdu.Value); ok {
				results[index] = s
			}
			return nil
		}
		results[index] = pdu.Value
		return nil
	})
	if err != nil {
		return nil, types.ClassifyError("snmp walk", err)
	}

	return results, nil
}

// Ensure Driver implements LinkStatusProbe
var _ types.LinkStatusProbe = (*Driver)(nil)
