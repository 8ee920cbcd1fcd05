package cli

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/nanoncore/nano-wanguard/types"
	"github.com/nanoncore/nano-wanguard/vendors/common"
)

// AlgorithmProfile lists the SSH algorithms offered during negotiation.
// An empty list leaves the x/crypto defaults in place.
type AlgorithmProfile struct {
	Ciphers           []string
	KeyExchanges      []string
	HostKeyAlgorithms []string
}

// LegacyProfile is what RTL960x ONT firmware (dropbear 2012.x) accepts.
//
// WARNING: this deliberately downgrades transport security. 3DES-CBC, the
// 1024-bit Oakley group 2 key exchange and SHA-1 RSA host keys are all
// broken or deprecated; they are offered only because the device supports
// nothing newer. Override through SSH_CIPHERS / SSH_KEX /
// SSH_HOST_KEY_ALGORITHMS for devices with a modern SSH server.
var LegacyProfile = AlgorithmProfile{
	Ciphers:           []string{"3des-cbc"},
	KeyExchanges:      []string{"diffie-hellman-group1-sha1"},
	HostKeyAlgorithms: []string{ssh.KeyAlgoRSA},
}

// profileFromMetadata reads the algorithm lists from metadata. A key that is
// absent falls back to LegacyProfile; a key that is present but empty
// selects the library defaults.
func profileFromMetadata(metadata map[string]string) AlgorithmProfile {
	pick := func(key string, legacy []string) []string {
		v, ok := common.GetMetadataString(metadata, key)
		if !ok {
			return legacy
		}
		return splitList(v)
	}
	return AlgorithmProfile{
		Ciphers:           pick(common.MetaCiphers, LegacyProfile.Ciphers),
		KeyExchanges:      pick(common.MetaKeyExchanges, LegacyProfile.KeyExchanges),
		HostKeyAlgorithms: pick(common.MetaHostKeyAlgos, LegacyProfile.HostKeyAlgorithms),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// clientConfig builds the SSH client configuration for the ONT
func clientConfig(config *types.EquipmentConfig) (*ssh.ClientConfig, error) {
	// Some busybox builds only offer keyboard-interactive
	keyboardInteractive := ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = config.Password
		}
		return answers, nil
	})

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // ONTs regenerate keys on reflash; pin with SSH_KNOWN_HOSTS
	if path, ok := common.GetMetadataString(config.Metadata, common.MetaKnownHosts); ok && path != "" {
		cb, err := knownhosts.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts %s: %w", path, err)
		}
		hostKeyCallback = cb
	}

	profile := profileFromMetadata(config.Metadata)

	sshConfig := &ssh.ClientConfig{
		User: config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(config.Password),
			keyboardInteractive,
		},
		Timeout:           config.Timeout,
		HostKeyCallback:   hostKeyCallback,
		HostKeyAlgorithms: profile.HostKeyAlgorithms,
	}
	sshConfig.Ciphers = profile.Ciphers
	sshConfig.KeyExchanges = profile.KeyExchanges

	return sshConfig, nil
}

// dialSSH connects and completes the SSH handshake within config.Timeout
func dialSSH(ctx context.Context, config *types.EquipmentConfig) (*ssh.Client, error) {
	sshConfig, err := clientConfig(config)
	if err != nil {
		return nil, types.NewError(types.ErrProtocol, "ssh config", "", err)
	}

	target := net.JoinHostPort(config.Address, fmt.Sprintf("%d", config.Port))

	dialer := net.Dialer{Timeout: config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, types.ClassifyError("dial "+target, err)
	}

	_ = conn.SetDeadline(time.Now().Add(config.Timeout))
	c, chans, reqs, err := ssh.NewClientConn(conn, target, sshConfig)
	if err != nil {
		conn.Close()
		return nil, types.ClassifyError("ssh handshake "+target, err)
	}
	_ = conn.SetDeadline(time.Time{})

	return ssh.NewClient(c, chans, reqs), nil
}
