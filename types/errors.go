package types

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCode represents a normalized error code for device errors
type ErrorCode string

const (
	// Connection errors
	ErrTimeout    ErrorCode = "TIMEOUT"
	ErrConnReset  ErrorCode = "CONN_RESET"
	ErrConnRefuse ErrorCode = "CONN_REFUSED"
	ErrAuthFailed ErrorCode = "AUTH_FAILED"

	// Lookup and data errors
	ErrInterfaceNotFound ErrorCode = "INTERFACE_NOT_FOUND"
	ErrParseFailed       ErrorCode = "PARSE_FAILED"
	ErrProtocol          ErrorCode = "PROTOCOL_ERROR"
	ErrInvalidVLANID     ErrorCode = "INVALID_VLAN_ID"

	// Unknown
	ErrUnknown ErrorCode = "UNKNOWN"
)

// ErrorMapping maps a raw error pattern to a code
type ErrorMapping struct {
	Pattern string
	Code    ErrorCode
	Human   string
}

// errorPatterns is matched in order against the lowercased error text.
// More specific patterns come first.
var errorPatterns = []ErrorMapping{
	// Authentication (RouterOS API and SSH)
	{Pattern: "invalid user name or password", Code: ErrAuthFailed, Human: "Router rejected the API credentials"},
	{Pattern: "cannot log in", Code: ErrAuthFailed, Human: "Router rejected the API login"},
	{Pattern: "unable to authenticate", Code: ErrAuthFailed, Human: "SSH authentication failed"},
	{Pattern: "authentication failed", Code: ErrAuthFailed, Human: "Authentication failed"},
	{Pattern: "access denied", Code: ErrAuthFailed, Human: "Access denied"},

	// SSH negotiation
	{Pattern: "no common algorithm", Code: ErrProtocol, Human: "SSH algorithm negotiation failed, check the legacy profile"},
	{Pattern: "handshake failed", Code: ErrProtocol, Human: "SSH handshake failed"},
	{Pattern: "tls:", Code: ErrProtocol, Human: "TLS handshake with the router failed"},
	{Pattern: "x509:", Code: ErrProtocol, Human: "Router certificate was rejected"},

	// Lookups
	{Pattern: "no such item", Code: ErrInterfaceNotFound, Human: "Router has no such item"},
	{Pattern: "no such instance", Code: ErrInterfaceNotFound, Human: "SNMP agent has no such instance"},

	// Connection
	{Pattern: "timer expired", Code: ErrTimeout, Human: "Timed out waiting for the shell prompt"},
	{Pattern: "timeout", Code: ErrTimeout, Human: "Operation timed out"},
	{Pattern: "deadline exceeded", Code: ErrTimeout, Human: "Operation timed out"},
	{Pattern: "connection reset", Code: ErrConnReset, Human: "Connection reset by peer"},
	{Pattern: "broken pipe", Code: ErrConnReset, Human: "Connection closed by peer"},
	{Pattern: "eof", Code: ErrConnReset, Human: "Connection closed by peer"},
	{Pattern: "connection refused", Code: ErrConnRefuse, Human: "Connection refused"},
	{Pattern: "no route to host", Code: ErrConnRefuse, Human: "Host unreachable"},
	{Pattern: "network is unreachable", Code: ErrConnRefuse, Human: "Network unreachable"},
	{Pattern: "no such host", Code: ErrConnRefuse, Human: "Host name does not resolve"},
}

// DeviceError is the error type returned by every driver
type DeviceError struct {
	Code    ErrorCode
	Op      string
	Message string
	Err     error
}

func (e *DeviceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Op, msg)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// NewError creates a DeviceError with a known code
func NewError(code ErrorCode, op, message string, err error) *DeviceError {
	return &DeviceError{Code: code, Op: op, Message: message, Err: err}
}

// ClassifyError wraps a raw library error into a DeviceError.
// Errors that already carry a code are returned unchanged.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var de *DeviceError
	if errors.As(err, &de) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &DeviceError{Code: ErrTimeout, Op: op, Err: err}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &DeviceError{Code: ErrTimeout, Op: op, Err: err}
	}

	errStr := strings.ToLower(err.Error())
	for _, mapping := range errorPatterns {
		if strings.Contains(errStr, mapping.Pattern) {
			return &DeviceError{Code: mapping.Code, Op: op, Message: mapping.Human, Err: err}
		}
	}

	return &DeviceError{Code: ErrUnknown, Op: op, Err: err}
}

// CodeOf returns the code carried by err, ErrUnknown otherwise
func CodeOf(err error) ErrorCode {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrUnknown
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsRecoverable returns true if the error is a transient connectivity failure
func IsRecoverable(err error) bool {
	switch CodeOf(err) {
	case ErrTimeout, ErrConnReset, ErrConnRefuse:
		return true
	default:
		return false
	}
}
