package mock

import (
	"context"
	"reflect"
	"testing"

	"github.com/nanoncore/nano-wanguard/types"
)

func newRouter(t *testing.T, metadata map[string]string) *Router {
	t.Helper()
	r, err := NewRouter(&types.EquipmentConfig{Name: "sim", Metadata: metadata})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return r
}

func TestRouterLinkFollowsWorkingVID(t *testing.T) {
	ctx := context.Background()
	r := newRouter(t, map[string]string{"mock_working_vids": "240"})

	if state, err := r.Query(ctx, "pppoe-wan"); err != nil || state != types.LinkDown {
		t.Fatalf("initial Query() = (%v, %v), want down", state, err)
	}

	session, err := r.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer session.Close()

	if err := session.Apply(ctx, "vlan35", 10); err != nil {
		t.Fatalf("Apply(10) error = %v", err)
	}
	if state, _ := r.Query(ctx, "pppoe-wan"); state != types.LinkDown {
		t.Errorf("link should stay down on VID 10")
	}

	if err := session.Apply(ctx, "vlan35", 240); err != nil {
		t.Fatalf("Apply(240) error = %v", err)
	}
	if state, _ := r.Query(ctx, "pppoe-wan"); state != types.LinkUp {
		t.Errorf("link should come up on VID 240")
	}

	if r.CurrentVID() != 240 {
		t.Errorf("CurrentVID() = %v, want 240", r.CurrentVID())
	}
	if want := []types.VlanCandidate{10, 240}; !reflect.DeepEqual(r.Applied(), want) {
		t.Errorf("Applied() = %v, want %v", r.Applied(), want)
	}
}

func TestRouterLinkUpAfterDelay(t *testing.T) {
	ctx := context.Background()
	r := newRouter(t, map[string]string{"mock_working_vids": "35", "mock_link_up_after": "2"})

	session, _ := r.Begin(ctx)
	defer session.Close()
	if err := session.Apply(ctx, "vlan35", 35); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	var states []types.LinkState
	for i := 0; i < 3; i++ {
		state, _ := r.Query(ctx, "pppoe-wan")
		states = append(states, state)
	}
	want := []types.LinkState{types.LinkDown, types.LinkDown, types.LinkUp}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("states = %v, want %v", states, want)
	}
}

func TestRouterInterfaceNotFound(t *testing.T) {
	ctx := context.Background()
	r := newRouter(t, map[string]string{"vlan_interface": "vlan100", "pppoe_interface": "pppoe-out1"})

	if state, err := r.Query(ctx, "pppoe-wan"); state != types.LinkDown || !types.IsCode(err, types.ErrInterfaceNotFound) {
		t.Errorf("Query() = (%v, %v), want (down, INTERFACE_NOT_FOUND)", state, err)
	}

	session, _ := r.Begin(ctx)
	defer session.Close()
	if err := session.Apply(ctx, "vlan35", 10); !types.IsCode(err, types.ErrInterfaceNotFound) {
		t.Errorf("Apply() error = %v, want INTERFACE_NOT_FOUND", err)
	}
	if len(r.Applied()) != 0 {
		t.Errorf("nothing should be applied, got %v", r.Applied())
	}
}

func TestRouterSessions(t *testing.T) {
	ctx := context.Background()
	r := newRouter(t, nil)

	session, _ := r.Begin(ctx)
	_, _ = r.Query(ctx, "pppoe-wan")

	opened, open := r.Sessions()
	if opened != 2 || open != 1 {
		t.Errorf("Sessions() = (%d, %d), want (2, 1)", opened, open)
	}

	_ = session.Close()
	_ = session.Close()
	if _, open = r.Sessions(); open != 0 {
		t.Errorf("open sessions = %d after Close, want 0", open)
	}

	if err := session.Apply(ctx, "vlan35", 10); !types.IsCode(err, types.ErrConnReset) {
		t.Errorf("Apply() on closed session = %v, want CONN_RESET", err)
	}
}

func TestRouterRejectsInvalidVLAN(t *testing.T) {
	r := newRouter(t, nil)
	session, _ := r.Begin(context.Background())
	defer session.Close()

	if err := session.Apply(context.Background(), "vlan35", 0); !types.IsCode(err, types.ErrInvalidVLANID) {
		t.Errorf("Apply(0) error = %v, want INVALID_VLAN_ID", err)
	}
}

func TestNewRouterErrors(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
	}{
		{name: "bad vid list", metadata: map[string]string{"mock_working_vids": "10,abc"}},
		{name: "bad delay", metadata: map[string]string{"mock_link_up_after": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRouter(&types.EquipmentConfig{Metadata: tt.metadata}); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := NewRouter(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestONTDiscover(t *testing.T) {
	o, err := NewONT(&types.EquipmentConfig{Metadata: map[string]string{"mock_vids": "10, 240, 10"}})
	if err != nil {
		t.Fatalf("NewONT() error = %v", err)
	}

	vids, err := o.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if want := []types.VlanCandidate{10, 240, 10}; !reflect.DeepEqual(vids, want) {
		t.Errorf("Discover() = %v, want %v", vids, want)
	}

	o.SetVIDs(35)
	vids, _ = o.Discover(context.Background())
	if want := []types.VlanCandidate{35}; !reflect.DeepEqual(vids, want) {
		t.Errorf("Discover() after retag = %v, want %v", vids, want)
	}
	if o.Calls() != 2 || len(o.GetCommandHistory()) != 2 {
		t.Errorf("Calls() = %d, history %v", o.Calls(), o.GetCommandHistory())
	}
}

func TestONTDiscoverEmpty(t *testing.T) {
	o, err := NewONT(&types.EquipmentConfig{})
	if err != nil {
		t.Fatalf("NewONT() error = %v", err)
	}

	vids, err := o.Discover(context.Background())
	if vids != nil || !types.IsCode(err, types.ErrParseFailed) {
		t.Errorf("Discover() = (%v, %v), want (nil, PARSE_FAILED)", vids, err)
	}
}

func TestONTDiscoverCancelled(t *testing.T) {
	o, _ := NewONT(&types.EquipmentConfig{Metadata: map[string]string{"mock_vids": "10"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if vids, err := o.Discover(ctx); vids != nil || err == nil {
		t.Errorf("Discover() = (%v, %v), want error", vids, err)
	}
}
