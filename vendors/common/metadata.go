package common

// Metadata keys understood by the drivers in EquipmentConfig.Metadata
const (
	MetaPrompt           = "prompt"
	MetaDiscoveryCommand = "discovery_command"
	MetaCiphers          = "ssh_ciphers"
	MetaKeyExchanges     = "ssh_kex"
	MetaHostKeyAlgos     = "ssh_host_key_algorithms"
	MetaKnownHosts       = "ssh_known_hosts"
	MetaSNMPVersion      = "snmp_version"
	MetaSNMPCommunity    = "snmp_community"

	// Simulator settings
	MetaVLANInterface  = "vlan_interface"
	MetaPPPoEInterface = "pppoe_interface"
	MetaMockVIDs       = "mock_vids"
	MetaMockWorkingVID = "mock_working_vids"
	MetaMockLinkDelay  = "mock_link_up_after"
)

// GetMetadataString retrieves a string value with optional fallback keys.
// Keys are checked in order - first match wins.
func GetMetadataString(metadata map[string]string, keys ...string) (string, bool) {
	if metadata == nil {
		return "", false
	}
	for _, key := range keys {
		if value, ok := metadata[key]; ok {
			return value, true
		}
	}
	return "", false
}

// GetMetadataStringWithDefault retrieves a string, or returns defaultValue.
func GetMetadataStringWithDefault(metadata map[string]string, defaultValue string, keys ...string) string {
	if value, ok := GetMetadataString(metadata, keys...); ok {
		return value
	}
	return defaultValue
}
