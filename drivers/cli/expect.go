package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	expect "github.com/google/goexpect"
	"golang.org/x/crypto/ssh"

	"github.com/nanoncore/nano-wanguard/types"
	"github.com/nanoncore/nano-wanguard/vendors/common"
)

// DefaultPromptPattern matches common CLI prompts like "hostname#" or "hostname>"
var DefaultPromptPattern = regexp.MustCompile(`(?m)[\w\-\[\]().]+[#>]\s*$`)

// VendorPrompts contains vendor-specific prompt patterns.
// The RTL960x busybox shell prints a bare "# " and nothing after it.
var VendorPrompts = map[types.Vendor]*regexp.Regexp{
	types.VendorRealtek: LiteralPrompt("# "),
	types.VendorGeneric: DefaultPromptPattern,
}

// DiscoveryCommands contains the command that dumps VLAN tagging state per vendor
var DiscoveryCommands = map[types.Vendor]string{
	types.VendorRealtek: "omcicli mib get 84",
}

// LiteralPrompt returns a pattern matching output that ends with prompt
func LiteralPrompt(prompt string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(prompt) + `$`)
}

// Expecter is the part of *expect.GExpect used by ExpectSession
type Expecter interface {
	Expect(re *regexp.Regexp, timeout time.Duration) (string, []string, error)
	Send(in string) error
	Close() error
}

// ExpectSession wraps google/goexpect for ONT shell interaction
type ExpectSession struct {
	expecter Expecter
	conn     io.Closer
	promptRE *regexp.Regexp
	timeout  time.Duration
}

// ExpectSessionConfig holds configuration for creating an expect session
type ExpectSessionConfig struct {
	SSHClient *ssh.Client
	Prompt    *regexp.Regexp
	Timeout   time.Duration
}

// NewExpectSession spawns a PTY shell over the SSH client and waits for the first prompt.
// The session owns the client and closes it on Close.
func NewExpectSession(cfg ExpectSessionConfig) (*ExpectSession, error) {
	if cfg.SSHClient == nil {
		return nil, fmt.Errorf("SSH client is required")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	exp, _, err := expect.SpawnSSH(cfg.SSHClient, cfg.Timeout,
		expect.Verbose(false),
		expect.CheckDuration(100*time.Millisecond),
	)
	if err != nil {
		return nil, types.ClassifyError("spawn shell", err)
	}

	return newExpectSession(exp, cfg.SSHClient, cfg.Prompt, cfg.Timeout)
}

func newExpectSession(exp Expecter, conn io.Closer, promptRE *regexp.Regexp, timeout time.Duration) (*ExpectSession, error) {
	if promptRE == nil {
		promptRE = DefaultPromptPattern
	}

	session := &ExpectSession{
		expecter: exp,
		conn:     conn,
		promptRE: promptRE,
		timeout:  timeout,
	}

	if _, _, err := exp.Expect(promptRE, timeout); err != nil {
		_ = session.Close()
		return nil, promptError("initial prompt", timeout, err)
	}

	return session, nil
}

// Execute sends a command line and returns everything printed before the next prompt
func (s *ExpectSession) Execute(command string) (string, error) {
	if s.expecter == nil {
		return "", fmt.Errorf("expect session not initialized")
	}

	if err := s.expecter.Send(command + "\n"); err != nil {
		return "", types.ClassifyError("send command", err)
	}

	output, _, err := s.expecter.Expect(s.promptRE, s.timeout)
	if err != nil {
		return output, promptError(fmt.Sprintf("prompt after %q", command), s.timeout, err)
	}

	return s.cleanOutput(output, command), nil
}

// cleanOutput removes the command echo and the trailing prompt
func (s *ExpectSession) cleanOutput(output, command string) string {
	output = common.NormalizeNewlines(common.StripANSI(output))
	lines := strings.Split(output, "\n")

	var cleaned []string
	for i, line := range lines {
		if i == 0 && strings.Contains(line, command) {
			continue
		}
		if i == len(lines)-1 && s.promptRE.MatchString(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// Close closes the shell and then the underlying connection
func (s *ExpectSession) Close() error {
	var err error
	if s.expecter != nil {
		err = s.expecter.Close()
		s.expecter = nil
	}
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
		s.conn = nil
	}
	return err
}

// promptError reports a prompt wait failure. A wait that ends for any reason
// other than a closed connection counts as a timeout.
func promptError(op string, timeout time.Duration, err error) error {
	classified := types.ClassifyError(op, err)
	switch types.CodeOf(classified) {
	case types.ErrConnReset, types.ErrTimeout:
		return classified
	}
	return types.NewError(types.ErrTimeout, op, fmt.Sprintf("no prompt within %s", timeout), err)
}
