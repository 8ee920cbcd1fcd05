package types

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "read tcp 10.0.0.1:8728: i/o deadline" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"routeros bad login", errors.New("from RouterOS device: invalid user name or password (6)"), ErrAuthFailed},
		{"ssh auth", errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password]"), ErrAuthFailed},
		{"ssh algorithms", errors.New("ssh: handshake failed: ssh: no common algorithm for key exchange"), ErrProtocol},
		{"tls", errors.New("tls: first record does not look like a TLS handshake"), ErrProtocol},
		{"refused", errors.New("dial tcp 192.168.88.1:8728: connect: connection refused"), ErrConnRefuse},
		{"reset", errors.New("read: connection reset by peer"), ErrConnReset},
		{"eof", errors.New("EOF"), ErrConnReset},
		{"expect timer", errors.New("expect: timer expired after 30 seconds"), ErrTimeout},
		{"context deadline", fmt.Errorf("dial: %w", context.DeadlineExceeded), ErrTimeout},
		{"net timeout", timeoutErr{}, ErrTimeout},
		{"no such item", errors.New("from RouterOS device: no such item"), ErrInterfaceNotFound},
		{"unknown", errors.New("something odd"), ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError("op", tt.err)
			if code := CodeOf(got); code != tt.want {
				t.Errorf("CodeOf(ClassifyError(%q)) = %s, want %s", tt.err, code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error does not wrap the original")
			}
		})
	}
}

func TestClassifyErrorKeepsDeviceError(t *testing.T) {
	orig := NewError(ErrInterfaceNotFound, "lookup", "vlan35 not found", nil)
	wrapped := fmt.Errorf("sweep: %w", orig)

	got := ClassifyError("other", wrapped)
	if got != wrapped {
		t.Fatalf("expected error to be returned unchanged, got %v", got)
	}
	if CodeOf(got) != ErrInterfaceNotFound {
		t.Errorf("CodeOf() = %s, want %s", CodeOf(got), ErrInterfaceNotFound)
	}
}

func TestClassifyErrorNil(t *testing.T) {
	if err := ClassifyError("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestDeviceErrorString(t *testing.T) {
	err := NewError(ErrTimeout, "prompt", "no prompt within 30s", errors.New("timer expired"))
	want := "[TIMEOUT] prompt: no prompt within 30s: timer expired"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := &DeviceError{Code: ErrUnknown, Op: "x", Err: errors.New("boom")}
	if bare.Error() != "[UNKNOWN] x: boom" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(NewError(ErrConnRefuse, "dial", "", nil)) {
		t.Error("connection refused should be recoverable")
	}
	if IsRecoverable(NewError(ErrAuthFailed, "dial", "", nil)) {
		t.Error("auth failure should not be recoverable")
	}
	if IsRecoverable(errors.New("plain")) {
		t.Error("plain errors are not recoverable")
	}
	if !IsCode(NewError(ErrTimeout, "x", "", nil), ErrTimeout) {
		t.Error("IsCode should match")
	}
	if IsCode(nil, ErrUnknown) {
		t.Error("IsCode(nil) should be false")
	}
}
