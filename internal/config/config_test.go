package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default server, got %v", cfg.Bus.Servers)
	}
	if cfg.TTS.Mode != "sam" || cfg.TTS.Voice != "sam" || cfg.TTS.SampleRate != 22050 {
		t.Fatalf("unexpected tts defaults %+v", cfg.TTS)
	}
	if len(cfg.Voices) != 6 || cfg.Voices[0].Name != "sam" || cfg.Voices[0].Speed != 72 {
		t.Fatalf("unexpected default voices %+v", cfg.Voices)
	}
	if cfg.ClipCache.Mode != "memory" {
		t.Fatalf("expected memory clip cache, got %q", cfg.ClipCache.Mode)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOQA_BUS_SERVERS", "nats://one:4222, nats://two:4222")
	t.Setenv("LOQA_BUS_USERNAME", "alice")
	t.Setenv("LOQA_BUS_PASSWORD", "secret")
	t.Setenv("LOQA_BUS_TLS_INSECURE", "true")
	t.Setenv("LOQA_BUS_CONNECT_TIMEOUT_MS", "5000")
	t.Setenv("LOQA_BUS_STORE_DIR", "/tmp/nats")
	t.Setenv("LOQA_NODE_ID", "test-node")
	t.Setenv("LOQA_NODE_ROLE", "tts")
	t.Setenv("LOQA_NODE_HEARTBEAT_INTERVAL_MS", "1500")
	t.Setenv("LOQA_NODE_HEARTBEAT_TIMEOUT_MS", "5000")
	t.Setenv("LOQA_CLIP_CACHE_PATH", "./tmp.db")
	t.Setenv("LOQA_CLIP_CACHE_MODE", "persistent")
	t.Setenv("LOQA_CLIP_CACHE_RETENTION_DAYS", "7")
	t.Setenv("LOQA_CLIP_CACHE_MAX_ENTRIES", "123")
	t.Setenv("LOQA_CLIP_CACHE_VACUUM_ON_START", "true")
	t.Setenv("LOQA_TTS_VOICE", "elf")
	t.Setenv("LOQA_TTS_CHUNK_DURATION_MS", "250")
	t.Setenv("LOQA_TELEMETRY_TRACE_SAMPLE_RATIO", "0.25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Bus.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %v", cfg.Bus.Servers)
	}
	if cfg.Bus.Username != "alice" || cfg.Bus.Password != "secret" {
		t.Fatalf("expected credentials override")
	}
	if !cfg.Bus.TLSInsecure {
		t.Fatal("expected tls insecure override true")
	}
	if cfg.Bus.ConnectTimeout != 5000 {
		t.Fatalf("expected timeout 5000, got %d", cfg.Bus.ConnectTimeout)
	}
	if cfg.Bus.StoreDir != "/tmp/nats" {
		t.Fatalf("expected store dir override")
	}
	if cfg.Node.ID != "test-node" {
		t.Fatalf("expected node id override")
	}
	if cfg.Node.HeartbeatInterval != 1500 {
		t.Fatalf("expected heartbeat interval override")
	}
	if cfg.Node.HeartbeatTimeout != 5000 {
		t.Fatalf("expected heartbeat timeout override")
	}
	if cfg.ClipCache.Path != "./tmp.db" {
		t.Fatalf("expected clip cache path override")
	}
	if cfg.ClipCache.Mode != "persistent" {
		t.Fatalf("expected clip cache mode override")
	}
	if cfg.ClipCache.RetentionDays != 7 {
		t.Fatalf("expected clip cache retention days override")
	}
	if cfg.ClipCache.MaxEntries != 123 {
		t.Fatalf("expected clip cache max entries override")
	}
	if !cfg.ClipCache.VacuumOnStart {
		t.Fatalf("expected clip cache vacuum flag override")
	}
	if cfg.TTS.Voice != "elf" || cfg.TTS.ChunkDurationMS != 250 {
		t.Fatalf("expected tts overrides, got %+v", cfg.TTS)
	}
	if cfg.Telemetry.TraceSampleRatio != 0.25 {
		t.Fatalf("expected trace sample ratio override, got %v", cfg.Telemetry.TraceSampleRatio)
	}
}

func TestLoadFileReplacesVoices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loqa.yaml")
	data := `
runtime_name: test-sam
tts:
  voice: robot
voices:
  - name: robot
    pitch: 60
    mouth: 190
    throat: 190
    speed: 92
    pre_cache:
      - text: hello
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RuntimeName != "test-sam" {
		t.Fatalf("expected runtime name from file")
	}
	if len(cfg.Voices) != 1 || cfg.Voices[0].Name != "robot" || len(cfg.Voices[0].PreCache) != 1 {
		t.Fatalf("expected file voices to replace defaults, got %+v", cfg.Voices)
	}
	if cfg.TTS.Mode != "sam" {
		t.Fatalf("expected untouched defaults to survive")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"tts.mode":            func(c *Config) { c.TTS.Mode = "festival" },
		"sample_rate":         func(c *Config) { c.TTS.SampleRate = 16000 },
		"clip_cache.mode":     func(c *Config) { c.ClipCache.Mode = "redis" },
		"speed":               func(c *Config) { c.Voices[0].Speed = 0 },
		"duplicate":           func(c *Config) { c.Voices = append(c.Voices, c.Voices[0]) },
		"is not a configured": func(c *Config) { c.TTS.Voice = "nobody" },
		"trace_sample_ratio":  func(c *Config) { c.Telemetry.TraceSampleRatio = 2 },
	}
	for want, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		err := validate(cfg)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%s: expected validation error, got %v", want, err)
		}
	}
}

func TestValidateVoice(t *testing.T) {
	if err := ValidateVoice(VoiceConfig{Name: "ok", Pitch: 64, Mouth: 128, Throat: 128, Speed: 72}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateVoice(VoiceConfig{Name: "loud", Pitch: 300, Speed: 72}); err == nil {
		t.Fatal("expected pitch range error")
	}
	if err := ValidateVoice(VoiceConfig{Speed: 72}); err == nil {
		t.Fatal("expected missing name error")
	}
}
