package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel         string  `yaml:"log_level"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint"`
	OTLPInsecure     bool    `yaml:"otlp_insecure"`
	PrometheusBind   string  `yaml:"prometheus_bind"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
	// MaxTextBytes bounds the text accepted by POST /v1/tts.
	MaxTextBytes int `yaml:"max_text_bytes"`
}

type Config struct {
	RuntimeName string          `yaml:"runtime_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Bus         BusConfig       `yaml:"bus"`
	Node        NodeConfig      `yaml:"node"`
	ClipCache   ClipCacheConfig `yaml:"clip_cache"`
	TTS         TTSConfig       `yaml:"tts"`
	Voices      []VoiceConfig   `yaml:"voices"`
	VoicesDir   string          `yaml:"voices_dir"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	StoreDir       string   `yaml:"store_dir"`
	JetStream      bool     `yaml:"jetstream"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type NodeConfig struct {
	ID                string           `yaml:"id"`
	Role              string           `yaml:"role"`
	HeartbeatInterval int              `yaml:"heartbeat_interval_ms"`
	HeartbeatTimeout  int              `yaml:"heartbeat_timeout_ms"`
	Capabilities      []NodeCapability `yaml:"capabilities"`
}

type NodeCapability struct {
	Name       string            `yaml:"name"`
	Tier       string            `yaml:"tier"`
	Attributes map[string]string `yaml:"attributes"`
}

type ClipCacheConfig struct {
	Path          string `yaml:"path"`
	Mode          string `yaml:"mode"` // disabled, memory, persistent
	RetentionDays int    `yaml:"retention_days"`
	MaxEntries    int    `yaml:"max_entries"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type TTSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Mode            string `yaml:"mode"` // sam, mock, exec
	Command         string `yaml:"command"`
	Voice           string `yaml:"voice"`
	SampleRate      int    `yaml:"sample_rate"`
	Channels        int    `yaml:"channels"`
	ChunkDurationMS int    `yaml:"chunk_duration_ms"`
	TimeoutMS       int    `yaml:"timeout_ms"`
}

// VoiceConfig is a named set of synthesizer parameters.
type VoiceConfig struct {
	Name     string          `yaml:"name"`
	Pitch    int             `yaml:"pitch"`
	Mouth    int             `yaml:"mouth"`
	Throat   int             `yaml:"throat"`
	Speed    int             `yaml:"speed"`
	SingMode bool            `yaml:"sing_mode"`
	Padding  bool            `yaml:"padding"`
	PreCache []PreCacheEntry `yaml:"pre_cache"`
}

// PreCacheEntry is rendered into the clip cache when a voice loads.
type PreCacheEntry struct {
	Text     string `yaml:"text"`
	Phonetic bool   `yaml:"phonetic"`
}

// DefaultVoices are the classic presets.
func DefaultVoices() []VoiceConfig {
	return []VoiceConfig{
		{Name: "sam", Speed: 72, Pitch: 64, Throat: 128, Mouth: 128, Padding: true},
		{Name: "elf", Speed: 72, Pitch: 64, Throat: 110, Mouth: 160, Padding: true},
		{Name: "little-robot", Speed: 92, Pitch: 60, Throat: 190, Mouth: 190, Padding: true},
		{Name: "stuffy-guy", Speed: 82, Pitch: 72, Throat: 110, Mouth: 105, Padding: true},
		{Name: "little-old-lady", Speed: 82, Pitch: 32, Throat: 145, Mouth: 145, Padding: true},
		{Name: "extra-terrestrial", Speed: 100, Pitch: 64, Throat: 150, Mouth: 200, Padding: true},
	}
}

func Default() Config {
	return Config{
		RuntimeName: "loqa-sam",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind:         "0.0.0.0",
			Port:         8080,
			MaxTextBytes: 4096,
		},
		Telemetry: TelemetryConfig{
			LogLevel:         "info",
			OTLPEndpoint:     "",
			OTLPInsecure:     true,
			PrometheusBind:   ":9091",
			TraceSampleRatio: 1,
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			StoreDir:       "./data/nats",
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		Node: NodeConfig{
			ID:                "loqa-sam-1",
			Role:              "tts",
			HeartbeatInterval: 2000,
			HeartbeatTimeout:  6000,
			Capabilities: []NodeCapability{
				{Name: "tts.sam", Tier: "fast"},
			},
		},
		ClipCache: ClipCacheConfig{
			Path:          "./data/loqa-clips.db",
			Mode:          "memory",
			RetentionDays: 30,
			MaxEntries:    1000,
		},
		TTS: TTSConfig{
			Enabled:         true,
			Mode:            "sam",
			Voice:           "sam",
			SampleRate:      22050,
			Channels:        1,
			ChunkDurationMS: 400,
			TimeoutMS:       45000,
		},
		Voices: DefaultVoices(),
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "LOQA_RUNTIME_NAME")
	overrideString(&cfg.Environment, "LOQA_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "LOQA_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "LOQA_HTTP_PORT")
	overrideInt(&cfg.HTTP.MaxTextBytes, "LOQA_HTTP_MAX_TEXT_BYTES")
	overrideString(&cfg.Telemetry.LogLevel, "LOQA_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "LOQA_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "LOQA_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "LOQA_TELEMETRY_PROMETHEUS_BIND")
	overrideFloat(&cfg.Telemetry.TraceSampleRatio, "LOQA_TELEMETRY_TRACE_SAMPLE_RATIO")
	overrideBool(&cfg.Bus.Embedded, "LOQA_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "LOQA_BUS_PORT")
	overrideString(&cfg.Bus.StoreDir, "LOQA_BUS_STORE_DIR")
	overrideBool(&cfg.Bus.JetStream, "LOQA_BUS_JETSTREAM")
	overrideStringSlice(&cfg.Bus.Servers, "LOQA_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "LOQA_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "LOQA_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "LOQA_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "LOQA_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "LOQA_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.Node.ID, "LOQA_NODE_ID")
	overrideString(&cfg.Node.Role, "LOQA_NODE_ROLE")
	overrideInt(&cfg.Node.HeartbeatInterval, "LOQA_NODE_HEARTBEAT_INTERVAL_MS")
	overrideInt(&cfg.Node.HeartbeatTimeout, "LOQA_NODE_HEARTBEAT_TIMEOUT_MS")
	overrideString(&cfg.ClipCache.Path, "LOQA_CLIP_CACHE_PATH")
	overrideString(&cfg.ClipCache.Mode, "LOQA_CLIP_CACHE_MODE")
	overrideInt(&cfg.ClipCache.RetentionDays, "LOQA_CLIP_CACHE_RETENTION_DAYS")
	overrideInt(&cfg.ClipCache.MaxEntries, "LOQA_CLIP_CACHE_MAX_ENTRIES")
	overrideBool(&cfg.ClipCache.VacuumOnStart, "LOQA_CLIP_CACHE_VACUUM_ON_START")
	overrideBool(&cfg.TTS.Enabled, "LOQA_TTS_ENABLED")
	overrideString(&cfg.TTS.Mode, "LOQA_TTS_MODE")
	overrideString(&cfg.TTS.Command, "LOQA_TTS_COMMAND")
	overrideString(&cfg.TTS.Voice, "LOQA_TTS_VOICE")
	overrideInt(&cfg.TTS.SampleRate, "LOQA_TTS_SAMPLE_RATE")
	overrideInt(&cfg.TTS.Channels, "LOQA_TTS_CHANNELS")
	overrideInt(&cfg.TTS.ChunkDurationMS, "LOQA_TTS_CHUNK_DURATION_MS")
	overrideInt(&cfg.TTS.TimeoutMS, "LOQA_TTS_TIMEOUT_MS")
	overrideString(&cfg.VoicesDir, "LOQA_VOICES_DIR")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

// ValidateVoice checks a single preset; voice files loaded at runtime go
// through it as well.
func ValidateVoice(v VoiceConfig) error {
	if strings.TrimSpace(v.Name) == "" {
		return errors.New("voice name must not be empty")
	}
	for field, value := range map[string]int{"pitch": v.Pitch, "mouth": v.Mouth, "throat": v.Throat} {
		if value < 0 || value > 255 {
			return fmt.Errorf("voice %q: %s must be between 0 and 255", v.Name, field)
		}
	}
	if v.Speed <= 0 || v.Speed > 255 {
		return fmt.Errorf("voice %q: speed must be between 1 and 255", v.Name)
	}
	for i, entry := range v.PreCache {
		if strings.TrimSpace(entry.Text) == "" {
			return fmt.Errorf("voice %q: pre_cache[%d].text must not be empty", v.Name, i)
		}
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.HTTP.MaxTextBytes <= 0 {
		return errors.New("http.max_text_bytes must be positive")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
		if cfg.Bus.JetStream && cfg.Bus.StoreDir == "" {
			return errors.New("bus.store_dir must be set when jetstream is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	if cfg.Node.ID == "" {
		return errors.New("node.id must not be empty")
	}
	if cfg.Node.HeartbeatInterval <= 0 {
		return errors.New("node.heartbeat_interval_ms must be positive")
	}
	if cfg.Node.HeartbeatTimeout <= cfg.Node.HeartbeatInterval {
		return errors.New("node.heartbeat_timeout_ms must be greater than heartbeat interval")
	}
	if len(cfg.Node.Capabilities) == 0 {
		return errors.New("node.capabilities must not be empty")
	}
	switch cfg.ClipCache.Mode {
	case "disabled", "memory":
		// ok
	case "persistent":
		if cfg.ClipCache.Path == "" {
			return errors.New("clip_cache.path must not be empty when mode=persistent")
		}
	default:
		return errors.New("clip_cache.mode must be one of disabled|memory|persistent")
	}
	if cfg.ClipCache.RetentionDays < 0 {
		return errors.New("clip_cache.retention_days must be >= 0")
	}
	if cfg.ClipCache.MaxEntries < 0 {
		return errors.New("clip_cache.max_entries must be >= 0")
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	if cfg.Telemetry.TraceSampleRatio < 0 || cfg.Telemetry.TraceSampleRatio > 1 {
		return errors.New("telemetry.trace_sample_ratio must be between 0 and 1")
	}
	if cfg.TTS.Enabled {
		switch cfg.TTS.Mode {
		case "sam", "mock", "exec":
		default:
			return errors.New("tts.mode must be one of sam|mock|exec")
		}
		if cfg.TTS.Mode == "exec" && cfg.TTS.Command == "" {
			return errors.New("tts.command must be set when mode=exec")
		}
		if cfg.TTS.SampleRate <= 0 {
			return errors.New("tts.sample_rate must be positive")
		}
		if cfg.TTS.Mode != "exec" && cfg.TTS.SampleRate != 22050 {
			return fmt.Errorf("tts.sample_rate must be 22050 when mode=%s", cfg.TTS.Mode)
		}
		if cfg.TTS.Channels <= 0 {
			return errors.New("tts.channels must be positive")
		}
		if cfg.TTS.ChunkDurationMS <= 0 {
			return errors.New("tts.chunk_duration_ms must be positive")
		}
		if cfg.TTS.TimeoutMS <= 0 {
			return errors.New("tts.timeout_ms must be positive")
		}
	}
	seen := make(map[string]bool, len(cfg.Voices))
	for _, v := range cfg.Voices {
		if err := ValidateVoice(v); err != nil {
			return fmt.Errorf("voices: %w", err)
		}
		if seen[v.Name] {
			return fmt.Errorf("voices: duplicate voice %q", v.Name)
		}
		seen[v.Name] = true
	}
	if cfg.TTS.Enabled && cfg.TTS.Mode == "sam" && cfg.VoicesDir == "" && !seen[cfg.TTS.Voice] {
		return fmt.Errorf("tts.voice %q is not a configured voice", cfg.TTS.Voice)
	}
	return nil
}
