package common

import "strings"

// IF-MIB ifOperStatus values (RFC 2863)
const (
	IfOperStatusUp             int64 = 1
	IfOperStatusDown           int64 = 2
	IfOperStatusTesting        int64 = 3
	IfOperStatusUnknown        int64 = 4
	IfOperStatusDormant        int64 = 5
	IfOperStatusNotPresent     int64 = 6
	IfOperStatusLowerLayerDown int64 = 7
)

// GetSNMPResult looks up an OID in SNMP results, handling the leading dot issue.
// gosnmp returns OIDs with a leading dot (e.g., ".1.3.6.1..."), but OID constants
// typically don't have the leading dot. This function tries both formats.
func GetSNMPResult(results map[string]interface{}, oid string) (interface{}, bool) {
	if results == nil {
		return nil, false
	}

	if !strings.HasPrefix(oid, ".") {
		if val, ok := results["."+oid]; ok {
			return val, true
		}
	}

	if val, ok := results[oid]; ok {
		return val, true
	}

	if strings.HasPrefix(oid, ".") {
		if val, ok := results[strings.TrimPrefix(oid, ".")]; ok {
			return val, true
		}
	}

	return nil, false
}

// FindIndexByName returns the table index whose string value equals name.
// walked maps index suffixes to values, as produced by an ifName/ifDescr walk.
func FindIndexByName(walked map[string]interface{}, name string) (string, bool) {
	for index, value := range walked {
		if s, ok := ParseStringSNMPValue(value); ok && s == name {
			return index, true
		}
	}
	return "", false
}

// ParseIntSNMPValue extracts an int64 from the numeric types gosnmp returns.
func ParseIntSNMPValue(value interface{}) (int64, bool) {
	if value == nil {
		return 0, false
	}

	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}

// ParseStringSNMPValue extracts a string from SNMP result.
// Handles both string and []byte types.
func ParseStringSNMPValue(value interface{}) (string, bool) {
	if value == nil {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}
