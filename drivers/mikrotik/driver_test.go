package mikrotik

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-routeros/routeros/v3"
	"github.com/go-routeros/routeros/v3/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanoncore/nano-wanguard/types"
)

// fakeAPI answers commands by path and records every sentence
type fakeAPI struct {
	items  map[string][]map[string]string
	errs   map[string]error
	calls  [][]string
	closed int
}

func (f *fakeAPI) Run(sentence ...string) (*routeros.Reply, error) {
	f.calls = append(f.calls, sentence)
	if err := f.errs[sentence[0]]; err != nil {
		return nil, err
	}
	reply := &routeros.Reply{Done: &proto.Sentence{Word: "!done"}}
	for _, item := range f.items[sentence[0]] {
		reply.Re = append(reply.Re, &proto.Sentence{Word: "!re", Map: item})
	}
	return reply, nil
}

func (f *fakeAPI) Close() error {
	f.closed++
	return nil
}

func newTestDriver(t *testing.T, api *fakeAPI, dialErr error) (*Driver, *int) {
	t.Helper()
	d, err := NewDriver(&types.EquipmentConfig{Address: "192.168.88.1", Username: "admin"})
	require.NoError(t, err)

	dials := 0
	d.dial = func(ctx context.Context, config *types.EquipmentConfig) (*Session, error) {
		dials++
		if dialErr != nil {
			return nil, dialErr
		}
		return &Session{api: api}, nil
	}
	return d, &dials
}

func TestNewDriverDefaults(t *testing.T) {
	plain := &types.EquipmentConfig{Address: "r1"}
	_, err := NewDriver(plain)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, plain.Port)
	assert.Equal(t, 10*time.Second, plain.Timeout)

	secure := &types.EquipmentConfig{Address: "r1", TLSEnabled: true}
	_, err = NewDriver(secure)
	require.NoError(t, err)
	assert.Equal(t, DefaultTLSPort, secure.Port)

	_, err = NewDriver(&types.EquipmentConfig{})
	assert.Error(t, err)
	_, err = NewDriver(nil)
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name     string
		items    []map[string]string
		runErr   error
		dialErr  error
		want     types.LinkState
		wantCode types.ErrorCode
	}{
		{
			name:  "running",
			items: []map[string]string{{"name": "pppoe-wan", "running": "true"}},
			want:  types.LinkUp,
		},
		{
			name:  "not running",
			items: []map[string]string{{"name": "pppoe-wan", "running": "false"}},
			want:  types.LinkDown,
		},
		{
			name:  "flag absent",
			items: []map[string]string{{"name": "pppoe-wan"}},
			want:  types.LinkDown,
		},
		{
			name:     "interface missing",
			items:    nil,
			want:     types.LinkDown,
			wantCode: types.ErrInterfaceNotFound,
		},
		{
			name:     "device error",
			runErr:   errors.New("from RouterOS device: no such command prefix"),
			want:     types.LinkDown,
			wantCode: types.ErrUnknown,
		},
		{
			name:     "unreachable",
			dialErr:  types.ClassifyError("dial", errors.New("connect: connection refused")),
			want:     types.LinkDown,
			wantCode: types.ErrConnRefuse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				items: map[string][]map[string]string{"/interface/print": tt.items},
				errs:  map[string]error{"/interface/print": tt.runErr},
			}
			d, _ := newTestDriver(t, api, tt.dialErr)

			state, err := d.Query(context.Background(), "pppoe-wan")
			assert.Equal(t, tt.want, state)
			if tt.wantCode == "" && tt.runErr == nil {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, types.CodeOf(err))
			}

			if tt.dialErr == nil {
				assert.Equal(t, 1, api.closed, "session must be released")
				require.Len(t, api.calls, 1)
				assert.Equal(t, []string{"/interface/print", "?name=pppoe-wan", "=.proplist=name,running"}, api.calls[0])
			}
		})
	}
}

func TestQueryOpensSessionPerCall(t *testing.T) {
	api := &fakeAPI{items: map[string][]map[string]string{
		"/interface/print": {{"name": "pppoe-wan", "running": "true"}},
	}}
	d, dials := newTestDriver(t, api, nil)

	for i := 0; i < 3; i++ {
		_, _ = d.Query(context.Background(), "pppoe-wan")
	}
	assert.Equal(t, 3, *dials)
	assert.Equal(t, 3, api.closed)
}

func TestApplySession(t *testing.T) {
	api := &fakeAPI{items: map[string][]map[string]string{
		"/interface/vlan/print": {{".id": "*1A", "name": "vlan35", "vlan-id": "35"}},
	}}
	d, dials := newTestDriver(t, api, nil)

	session, err := d.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Apply(context.Background(), "vlan35", 10))
	require.NoError(t, session.Apply(context.Background(), "vlan35", 240))
	require.NoError(t, session.Close())

	assert.Equal(t, 1, *dials, "one session for the whole sweep")
	assert.Equal(t, 1, api.closed)

	var lookups, sets []string
	for _, call := range api.calls {
		switch call[0] {
		case "/interface/vlan/print":
			lookups = append(lookups, strings.Join(call, " "))
		case "/interface/vlan/set":
			sets = append(sets, strings.Join(call, " "))
		}
	}
	assert.Len(t, lookups, 1, "interface id is looked up once per session")
	assert.Equal(t, []string{
		"/interface/vlan/set =.id=*1A =vlan-id=10",
		"/interface/vlan/set =.id=*1A =vlan-id=240",
	}, sets)
}

func TestApplyInterfaceNotFound(t *testing.T) {
	api := &fakeAPI{}
	d, _ := newTestDriver(t, api, nil)

	session, err := d.Begin(context.Background())
	require.NoError(t, err)
	defer session.Close()

	err = session.Apply(context.Background(), "vlan35", 10)
	assert.True(t, types.IsCode(err, types.ErrInterfaceNotFound), "got %v", err)
	for _, call := range api.calls {
		assert.NotEqual(t, "/interface/vlan/set", call[0], "nothing may be written when the interface is missing")
	}
}

func TestApplyInvalidVLAN(t *testing.T) {
	api := &fakeAPI{}
	d, _ := newTestDriver(t, api, nil)

	session, err := d.Begin(context.Background())
	require.NoError(t, err)
	defer session.Close()

	err = session.Apply(context.Background(), "vlan35", 4095)
	assert.True(t, types.IsCode(err, types.ErrInvalidVLANID))
	assert.Empty(t, api.calls)
}

func TestBeginDialFailure(t *testing.T) {
	dialErr := types.ClassifyError("login", errors.New("from RouterOS device: invalid user name or password (6)"))
	d, _ := newTestDriver(t, &fakeAPI{}, dialErr)

	session, err := d.Begin(context.Background())
	assert.Nil(t, session)
	assert.True(t, types.IsCode(err, types.ErrAuthFailed))
}

func TestSessionClosedRun(t *testing.T) {
	s := &Session{api: &fakeAPI{}}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.InterfaceRunning("pppoe-wan")
	assert.True(t, types.IsCode(err, types.ErrConnReset))
}

func TestTLSConfig(t *testing.T) {
	strict := tlsConfig(&types.EquipmentConfig{Address: "router.lan"})
	assert.False(t, strict.InsecureSkipVerify)
	assert.Equal(t, "router.lan", strict.ServerName)
	assert.Nil(t, strict.VerifyConnection)

	noVerify := tlsConfig(&types.EquipmentConfig{Address: "router.lan", TLSSkipVerify: true})
	assert.True(t, noVerify.InsecureSkipVerify)
	assert.Nil(t, noVerify.VerifyConnection)

	chainOnly := tlsConfig(&types.EquipmentConfig{Address: "router.lan", TLSSkipHostnameVerify: true})
	assert.True(t, chainOnly.InsecureSkipVerify)
	require.NotNil(t, chainOnly.VerifyConnection)
	assert.Error(t, chainOnly.VerifyConnection(tls.ConnectionState{}))
}
