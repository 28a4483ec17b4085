package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/loqalabs/loqa-sam/internal/clipcache"
	"github.com/loqalabs/loqa-sam/internal/config"
)

// Registry maps voice names to voices. It is safe for concurrent use.
type Registry struct {
	loadMu      sync.Mutex
	mu          sync.RWMutex
	voices      map[string]*Voice
	defaultName string
	cache       *clipcache.Store
	logger      *slog.Logger
}

func NewRegistry(defaultName string, cache *clipcache.Store, log *slog.Logger) *Registry {
	return &Registry{
		voices:      make(map[string]*Voice),
		defaultName: defaultName,
		cache:       cache,
		logger:      log.With(slog.String("component", "voice-registry")),
	}
}

// Load replaces the registered presets. Voices whose preset changed or
// that disappeared lose their cached clips; unchanged voices keep theirs.
// Stale clips are cleared before the swap, so a failed clear leaves the
// previous voices in place and Load reports the error.
func (r *Registry) Load(ctx context.Context, presets []config.VoiceConfig) error {
	next := make(map[string]*Voice, len(presets))
	for _, p := range presets {
		if err := config.ValidateVoice(p); err != nil {
			return err
		}
		if _, dup := next[p.Name]; dup {
			return fmt.Errorf("duplicate voice %q", p.Name)
		}
		next[p.Name] = nil
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	r.mu.RLock()
	var stale []*Voice
	for _, p := range presets {
		old, ok := r.voices[p.Name]
		switch {
		case ok && reflect.DeepEqual(old.Config(), p):
			next[p.Name] = old
		case ok:
			stale = append(stale, old)
			next[p.Name] = New(p, r.cache, r.logger)
		default:
			next[p.Name] = New(p, r.cache, r.logger)
		}
	}
	for name, old := range r.voices {
		if _, ok := next[name]; !ok {
			stale = append(stale, old)
		}
	}
	r.mu.RUnlock()

	var errs []error
	for _, v := range stale {
		if err := v.ClearCache(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("voices not reloaded: %w", err)
	}

	r.mu.Lock()
	r.voices = next
	r.mu.Unlock()

	// requests still holding a stale voice may have cached clips since
	for _, v := range stale {
		if err := v.ClearCache(ctx); err != nil {
			r.logger.Warn("failed to clear stale clips", slog.String("voice", v.Name()), slog.String("error", err.Error()))
		}
	}
	r.logger.Info("voices loaded", slog.Int("count", len(next)), slog.Int("changed", len(stale)))
	return nil
}

// Get returns a voice by name; the empty name selects the default.
func (r *Registry) Get(name string) (*Voice, error) {
	if name == "" {
		name = r.defaultName
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.voices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoice, name)
	}
	return v, nil
}

func (r *Registry) DefaultName() string { return r.defaultName }

// Names lists registered voices in name order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.voices))
	for name := range r.voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the presets in name order.
func (r *Registry) List() []config.VoiceConfig {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	presets := make([]config.VoiceConfig, 0, len(names))
	for _, name := range names {
		if v, ok := r.voices[name]; ok {
			presets = append(presets, v.Config())
		}
	}
	return presets
}

// PreCache warms the cache of every voice.
func (r *Registry) PreCache(ctx context.Context) error {
	var errs []error
	for _, name := range r.Names() {
		v, err := r.Get(name)
		if err != nil {
			continue
		}
		if err := v.PreCache(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
