package capability

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/loqalabs/loqa-sam/internal/bus"
	"github.com/loqalabs/loqa-sam/internal/config"
	"github.com/loqalabs/loqa-sam/internal/natsserver"
)

func startBus(t *testing.T) *bus.Client {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := natsserver.Start(config.BusConfig{Embedded: true, Port: -1, StoreDir: t.TempDir()}, log)
	if err != nil {
		t.Fatalf("start nats: %v", err)
	}
	t.Cleanup(srv.Shutdown)
	client, err := bus.Connect(context.Background(), config.BusConfig{Servers: []string{srv.ClientURL()}, ConnectTimeout: 2000}, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func localCapabilities(reg *Registry, id string) []Capability {
	nodes := reg.Query(func(n NodeInfo) bool { return n.ID == id })
	if len(nodes) != 1 {
		return nil
	}
	return nodes[0].Capabilities
}

func TestVoiceCapability(t *testing.T) {
	c := VoiceCapability(config.VoiceConfig{Name: "elf", Pitch: 64, Mouth: 160, Throat: 110, Speed: 72})
	if c.Name != "tts.sam.voice" || c.Attributes["voice"] != "elf" || c.Attributes["mouth"] != "160" {
		t.Fatalf("unexpected capability %+v", c)
	}
	if c.Attributes["sing"] != "false" || c.Tier != "fast" {
		t.Fatalf("unexpected capability %+v", c)
	}
}

func TestRegistryAnnouncesVoices(t *testing.T) {
	client := startBus(t)
	cfg := config.NodeConfig{
		ID:                "node-a",
		Role:              "tts",
		HeartbeatInterval: 100,
		HeartbeatTimeout:  5000,
		Capabilities:      []config.NodeCapability{{Name: "tts.sam", Tier: "fast"}},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg, err := NewRegistry(ctx, cfg, client, slog.New(slog.NewTextHandler(io.Discard, nil)),
		VoiceCapability(config.VoiceConfig{Name: "sam", Pitch: 64, Mouth: 128, Throat: 128, Speed: 72}))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	defer reg.Close()

	if !reg.Healthy() {
		t.Fatal("expected local node to be healthy after announce")
	}
	if got := len(localCapabilities(reg, "node-a")); got != 2 {
		t.Fatalf("expected 2 local capabilities, got %d", got)
	}
	if nodes := reg.Query(WithCapabilityFilter("tts.sam.voice")); len(nodes) != 1 {
		t.Fatalf("expected voice capability query to match, got %+v", nodes)
	}

	err = reg.Reannounce(
		VoiceCapability(config.VoiceConfig{Name: "sam", Speed: 72}),
		VoiceCapability(config.VoiceConfig{Name: "elf", Speed: 72}),
	)
	if err != nil {
		t.Fatalf("reannounce: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(localCapabilities(reg, "node-a")) != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 3 local capabilities after reannounce, got %d", len(localCapabilities(reg, "node-a")))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRegistryTracksRemoteHeartbeat(t *testing.T) {
	client := startBus(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local, err := NewRegistry(ctx, config.NodeConfig{ID: "local", Role: "tts", HeartbeatInterval: 50, HeartbeatTimeout: 5000}, client, log)
	if err != nil {
		t.Fatalf("local registry: %v", err)
	}
	defer local.Close()
	remote, err := NewRegistry(ctx, config.NodeConfig{ID: "remote", Role: "tts", HeartbeatInterval: 50, HeartbeatTimeout: 5000}, client, log)
	if err != nil {
		t.Fatalf("remote registry: %v", err)
	}
	defer remote.Close()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if nodes := local.Query(func(n NodeInfo) bool { return n.ID == "remote" }); len(nodes) == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("expected local registry to learn about remote node")
}

func TestQueryFilters(t *testing.T) {
	reg := &Registry{nodes: map[string]*NodeInfo{
		"b": {ID: "b", Healthy: true, Capabilities: []Capability{{Name: "tts.sam.voice", Tier: "fast"}}},
		"a": {ID: "a", Healthy: true, Capabilities: []Capability{{Name: "tts.sam", Tier: "fast"}}},
		"c": {ID: "c", Healthy: false, Capabilities: []Capability{{Name: "tts.sam.voice", Tier: "slow"}}},
	}}

	cases := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{name: "all", want: []string{"a", "b", "c"}},
		{name: "capability", filters: []Filter{WithCapabilityFilter("tts.sam.voice")}, want: []string{"b", "c"}},
		{name: "tier", filters: []Filter{WithTierFilter("fast")}, want: []string{"a", "b"}},
		{name: "combined", filters: []Filter{WithCapabilityFilter("tts.sam.voice"), WithTierFilter("fast")}, want: []string{"b"}},
		{name: "healthy", filters: []Filter{WithHealthyFilter(), nil}, want: []string{"a", "b"}},
		{name: "none", filters: []Filter{WithTierFilter("gpu")}, want: []string{}},
	}
	for _, tc := range cases {
		nodes := reg.Query(tc.filters...)
		ids := make([]string, 0, len(nodes))
		for _, n := range nodes {
			ids = append(ids, n.ID)
		}
		if !reflect.DeepEqual(ids, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, ids)
		}
	}

	// snapshots do not alias registry state
	nodes := reg.Query(WithCapabilityFilter("tts.sam"))
	nodes[0].Capabilities[0].Name = "changed"
	if reg.nodes["a"].Capabilities[0].Name != "tts.sam" {
		t.Fatal("expected query results to be copies")
	}
}

func TestHealthyFollowsHeartbeatTimeout(t *testing.T) {
	reg := &Registry{
		cfg:   config.NodeConfig{ID: "self", HeartbeatTimeout: 50},
		nodes: map[string]*NodeInfo{},
	}
	if reg.Healthy() {
		t.Fatal("expected unknown node to be unhealthy")
	}
	reg.updateNode("self", "tts", nil, time.Now(), true)
	if !reg.Healthy() {
		t.Fatal("expected fresh node to be healthy")
	}
	reg.updateNode("self", "", nil, time.Now().Add(-time.Second), true)
	reg.evaluateHealth()
	if reg.Healthy() {
		t.Fatal("expected stale node to be unhealthy")
	}
}
