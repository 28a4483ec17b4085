package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/loqalabs/loqa-sam/internal/bus"
	"github.com/loqalabs/loqa-sam/internal/capability"
	"github.com/loqalabs/loqa-sam/internal/clipcache"
	"github.com/loqalabs/loqa-sam/internal/config"
	"github.com/loqalabs/loqa-sam/internal/natsserver"
	"github.com/loqalabs/loqa-sam/internal/tts"
	"github.com/loqalabs/loqa-sam/internal/voice"
)

type Runtime struct {
	cfg           config.Config
	logger        *slog.Logger
	httpServer    *http.Server
	metricsServer *http.Server
	tracerClose   func(context.Context) error
	natsServer    *natsserver.EmbeddedServer
	bus           *bus.Client
	clips         *clipcache.Store
	voices        *voice.Registry
	tts           *tts.Service
	capabilities  *capability.Registry
	ready         atomic.Bool
	wg            sync.WaitGroup
}

func New(cfg config.Config, logger *slog.Logger) *Runtime {
	return &Runtime{
		cfg:    cfg,
		logger: logger,
	}
}

// Start brings every component up, serves until ctx is done and then
// shuts down in reverse order.
func (r *Runtime) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		r.shutdown()
	}()

	shutdownTelemetry, metricsHandler, err := setupTelemetry(r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	r.tracerClose = shutdownTelemetry

	r.natsServer, err = natsserver.Start(r.cfg.Bus, r.logger)
	if err != nil {
		return err
	}
	busCfg := r.cfg.Bus
	if r.natsServer != nil {
		busCfg.Servers = []string{r.natsServer.ClientURL()}
	}
	r.bus, err = bus.Connect(ctx, busCfg, r.logger)
	if err != nil {
		return err
	}

	r.clips, err = clipcache.Open(ctx, r.cfg.ClipCache, r.logger)
	if err != nil {
		return err
	}

	loader, err := r.startVoices(ctx)
	if err != nil {
		return err
	}

	synth, err := r.newSynthesizer()
	if err != nil {
		return err
	}
	r.tts = tts.NewService(ctx, r.cfg.TTS, r.bus, synth, r.logger)
	if err := r.tts.Start(); err != nil {
		return fmt.Errorf("start tts service: %w", err)
	}

	r.capabilities, err = capability.NewRegistry(ctx, r.cfg.Node, r.bus, r.logger, voiceCapabilities(r.voices.List())...)
	if err != nil {
		return fmt.Errorf("start capability registry: %w", err)
	}
	if loader != nil {
		r.watchVoices(ctx, loader)
	}

	handler := (&api{
		voices:       r.voices,
		nodes:        r.capabilities,
		maxTextBytes: r.cfg.HTTP.MaxTextBytes,
		metrics:      metricsHandler,
		health:       r.healthy,
		ready:        r.isReady,
		logger:       r.logger.With(slog.String("component", "http")),
	}).routes()

	addr := fmt.Sprintf("%s:%d", r.cfg.HTTP.Bind, r.cfg.HTTP.Port)
	r.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	r.serve(r.httpServer, "http")

	if metricsHandler != nil {
		r.metricsServer = &http.Server{
			Addr:              r.cfg.Telemetry.PrometheusBind,
			Handler:           metricsHandler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		r.serve(r.metricsServer, "metrics")
	}

	r.ready.Store(true)
	r.logger.Info("runtime started", slog.String("addr", addr), slog.Any("voices", r.voices.Names()))

	<-ctx.Done()
	r.logger.Info("runtime stopping")
	return nil
}

// startVoices loads the presets and pre-caches their clips. The returned
// loader is nil unless voices_dir is set.
func (r *Runtime) startVoices(ctx context.Context) (*voice.Loader, error) {
	r.voices = voice.NewRegistry(r.cfg.TTS.Voice, r.clips, r.logger)
	var loader *voice.Loader
	if r.cfg.VoicesDir == "" {
		if err := r.voices.Load(ctx, r.cfg.Voices); err != nil {
			return nil, fmt.Errorf("load voices: %w", err)
		}
	} else {
		loader = voice.NewLoader(r.cfg.VoicesDir, r.cfg.Voices, r.voices, r.logger)
		if _, err := loader.LoadAll(ctx); err != nil {
			return nil, err
		}
	}
	if _, err := r.voices.Get(""); err != nil {
		return nil, fmt.Errorf("default voice: %w", err)
	}

	if err := r.voices.PreCache(ctx); err != nil {
		r.logger.Warn("voice pre-cache incomplete", slog.String("error", err.Error()))
	}
	return loader, nil
}

// watchVoices reloads presets from voices_dir and re-announces them.
func (r *Runtime) watchVoices(ctx context.Context, loader *voice.Loader) {
	capabilities := r.capabilities
	loader.OnReload(func(presets []config.VoiceConfig) {
		if err := capabilities.Reannounce(voiceCapabilities(presets)...); err != nil {
			r.logger.Warn("failed to reannounce voices", slog.String("error", err.Error()))
		}
	})
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := loader.WatchAndReload(ctx); err != nil {
			r.logger.Error("voice watcher stopped", slog.String("error", err.Error()))
		}
	}()
}

func (r *Runtime) newSynthesizer() (tts.Synthesizer, error) {
	switch r.cfg.TTS.Mode {
	case "mock":
		return tts.NewMockSynth(r.cfg.TTS.ChunkDurationMS), nil
	case "exec":
		return tts.NewExecSynth(r.cfg.TTS.Command, r.cfg.TTS.SampleRate, r.cfg.TTS.Channels)
	default:
		return tts.NewSamSynth(r.voices, r.cfg.TTS.ChunkDurationMS, r.logger), nil
	}
}

func (r *Runtime) serve(srv *http.Server, name string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("server failed", slog.String("server", name), slog.String("error", err.Error()))
		}
	}()
}

func (r *Runtime) healthy() bool {
	if !r.bus.Healthy() {
		return false
	}
	if r.capabilities != nil && !r.capabilities.Healthy() {
		return false
	}
	return r.tts == nil || r.tts.Healthy()
}

// isReady is true once startup finished and every component is healthy.
func (r *Runtime) isReady() bool {
	return r.ready.Load() && r.healthy()
}

func (r *Runtime) shutdown() {
	r.ready.Store(false)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	for _, srv := range []*http.Server{r.httpServer, r.metricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Error("http shutdown error", slog.String("error", err.Error()))
		}
	}
	if r.capabilities != nil {
		r.capabilities.Close()
	}
	if r.tts != nil {
		r.tts.Close()
	}
	r.wg.Wait()
	if r.clips != nil {
		if err := r.clips.Close(); err != nil {
			r.logger.Error("clip cache close error", slog.String("error", err.Error()))
		}
	}
	r.bus.Close()
	r.natsServer.Shutdown()

	if r.tracerClose != nil {
		if err := r.tracerClose(shutdownCtx); err != nil {
			r.logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}
}

func voiceCapabilities(presets []config.VoiceConfig) []capability.Capability {
	caps := make([]capability.Capability, 0, len(presets))
	for _, p := range presets {
		caps = append(caps, capability.VoiceCapability(p))
	}
	return caps
}
