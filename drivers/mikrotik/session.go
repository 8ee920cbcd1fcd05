package mikrotik

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-routeros/routeros/v3"

	"github.com/nanoncore/nano-wanguard/types"
)

// Default API ports
const (
	DefaultPort    = 8728
	DefaultTLSPort = 8729
)

// runner is the part of *routeros.Client a Session needs
type runner interface {
	Run(sentence ...string) (*routeros.Reply, error)
	Close() error
}

// apiConn adapts *routeros.Client to runner
type apiConn struct {
	client *routeros.Client
}

func (a apiConn) Run(sentence ...string) (*routeros.Reply, error) {
	return a.client.Run(sentence...)
}

func (a apiConn) Close() error {
	a.client.Close()
	return nil
}

// Session is one logged-in API connection. It is acquired by a probe or a
// sweep and released with Close on every exit path.
type Session struct {
	api     runner
	conn    net.Conn
	timeout time.Duration
}

// Dialer opens a logged-in Session
type Dialer func(ctx context.Context, config *types.EquipmentConfig) (*Session, error)

// Dial connects to the RouterOS API, optionally over TLS, and logs in
func Dial(ctx context.Context, config *types.EquipmentConfig) (*Session, error) {
	addr := net.JoinHostPort(config.Address, strconv.Itoa(config.Port))
	dialer := &net.Dialer{Timeout: config.Timeout}

	var conn net.Conn
	var err error
	if config.TLSEnabled {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: tlsConfig(config)}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, types.ClassifyError("dial "+addr, err)
	}

	_ = conn.SetDeadline(time.Now().Add(config.Timeout))
	client, err := routeros.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, types.ClassifyError("api client "+addr, err)
	}
	if err := client.Login(config.Username, config.Password); err != nil {
		client.Close()
		return nil, types.ClassifyError("login "+addr, err)
	}

	return &Session{api: apiConn{client: client}, conn: conn, timeout: config.Timeout}, nil
}

// tlsConfig mirrors the router's verify / verify-hostname switches
func tlsConfig(config *types.EquipmentConfig) *tls.Config {
	tc := &tls.Config{
		ServerName: config.Address,
		MinVersion: tls.VersionTLS12,
	}

	switch {
	case config.TLSSkipVerify:
		tc.InsecureSkipVerify = true //nolint:gosec // MIKROTIK_SSL_VERIFY=false
	case config.TLSSkipHostnameVerify:
		// Chain is still verified in VerifyConnection, only the name check is skipped
		tc.InsecureSkipVerify = true //nolint:gosec // see VerifyConnection
		tc.VerifyConnection = verifyChainOnly
	}

	return tc
}

func verifyChainOnly(cs tls.ConnectionState) error {
	if len(cs.PeerCertificates) == 0 {
		return fmt.Errorf("x509: router presented no certificate")
	}
	opts := x509.VerifyOptions{Intermediates: x509.NewCertPool()}
	for _, cert := range cs.PeerCertificates[1:] {
		opts.Intermediates.AddCert(cert)
	}
	_, err := cs.PeerCertificates[0].Verify(opts)
	return err
}

// run executes one API command bounded by the session timeout
func (s *Session) run(op string, sentence ...string) (*routeros.Reply, error) {
	if s.api == nil {
		return nil, types.NewError(types.ErrConnReset, op, "session is closed", nil)
	}
	if s.conn != nil && s.timeout > 0 {
		_ = s.conn.SetDeadline(time.Now().Add(s.timeout))
	}
	reply, err := s.api.Run(sentence...)
	if err != nil {
		return nil, types.ClassifyError(op, err)
	}
	return reply, nil
}

// InterfaceRunning reports the "running" flag of the named interface
func (s *Session) InterfaceRunning(name string) (bool, error) {
	reply, err := s.run("interface print", "/interface/print", "?name="+name, "=.proplist=name,running")
	if err != nil {
		return false, err
	}
	if len(reply.Re) == 0 {
		return false, types.NewError(types.ErrInterfaceNotFound, "interface print",
			fmt.Sprintf("interface %s not found", name), nil)
	}
	return reply.Re[0].Map["running"] == "true", nil
}

// FindVLAN returns the internal .id and current tag of the named VLAN interface
func (s *Session) FindVLAN(name string) (string, types.VlanCandidate, error) {
	reply, err := s.run("vlan print", "/interface/vlan/print", "?name="+name, "=.proplist=.id,name,vlan-id")
	if err != nil {
		return "", 0, err
	}
	if len(reply.Re) == 0 {
		return "", 0, types.NewError(types.ErrInterfaceNotFound, "vlan print",
			fmt.Sprintf("VLAN interface %s not found", name), nil)
	}

	item := reply.Re[0].Map
	id := item[".id"]
	if id == "" {
		return "", 0, types.NewError(types.ErrProtocol, "vlan print", "reply has no .id", nil)
	}
	vid, _ := strconv.Atoi(item["vlan-id"])
	return id, types.VlanCandidate(vid), nil
}

// SetVLANID writes the tag of the VLAN interface with the given .id
func (s *Session) SetVLANID(id string, vid types.VlanCandidate) error {
	_, err := s.run("vlan set", "/interface/vlan/set", "=.id="+id, "=vlan-id="+vid.String())
	return err
}

// Close logs out and closes the connection; safe to call more than once
func (s *Session) Close() error {
	if s.api == nil {
		return nil
	}
	err := s.api.Close()
	s.api = nil
	return err
}
