// Package voice manages named synthesizer presets and their clip caches.
package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/loqalabs/loqa-sam/internal/audio"
	"github.com/loqalabs/loqa-sam/internal/clipcache"
	"github.com/loqalabs/loqa-sam/internal/config"
	"github.com/loqalabs/loqa-sam/internal/sam"
)

// ErrUnknownVoice is returned when a voice name is not registered.
var ErrUnknownVoice = errors.New("voice: unknown voice")

// Voice renders clips with one preset. Rendered PCM is cached per voice;
// changing the options clears that cache.
type Voice struct {
	mu     sync.RWMutex
	cfg    config.VoiceConfig
	synth  *sam.Synth
	cache  *clipcache.Store
	logger *slog.Logger
}

// New builds a voice. A nil cache behaves like a disabled one.
func New(cfg config.VoiceConfig, cache *clipcache.Store, log *slog.Logger) *Voice {
	v := &Voice{
		cfg:    cfg,
		cache:  cache,
		logger: log.With(slog.String("component", "voice"), slog.String("voice", cfg.Name)),
	}
	v.synth = sam.New(sam.WithOptions(OptionsOf(cfg)))
	return v
}

// OptionsOf converts a preset into synthesizer options.
func OptionsOf(cfg config.VoiceConfig) sam.Options {
	return sam.Options{
		Pitch:    uint8(cfg.Pitch),
		Mouth:    uint8(cfg.Mouth),
		Throat:   uint8(cfg.Throat),
		Speed:    uint8(cfg.Speed),
		SingMode: cfg.SingMode,
	}
}

func (v *Voice) Name() string { return v.cfg.Name }

// Config returns a copy of the preset.
func (v *Voice) Config() config.VoiceConfig {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cfg
}

func (v *Voice) Options() sam.Options {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.synth.Options()
}

// SetOptions swaps the synthesizer parameters and clears the cache when
// they actually change.
func (v *Voice) SetOptions(ctx context.Context, opts sam.Options) error {
	v.mu.Lock()
	changed := v.synth.Options() != opts
	if changed {
		v.cfg.Pitch, v.cfg.Mouth, v.cfg.Throat, v.cfg.Speed = int(opts.Pitch), int(opts.Mouth), int(opts.Throat), int(opts.Speed)
		v.cfg.SingMode = opts.SingMode
		v.synth = sam.New(sam.WithOptions(opts))
	}
	v.mu.Unlock()
	if !changed {
		return nil
	}
	return v.ClearCache(ctx)
}

// Phonemes transcribes text with this voice's transcriber.
func (v *Voice) Phonemes(text string) (string, error) {
	v.mu.RLock()
	synth := v.synth
	v.mu.RUnlock()
	return synth.Phonemes(text)
}

// Clip returns the cached clip when there is one, otherwise renders
// without storing.
func (v *Voice) Clip(ctx context.Context, text string, phonetic bool) (*audio.Clip, error) {
	pcm, err := v.lookup(ctx, text, phonetic)
	if err == nil {
		return v.clip(pcm), nil
	}
	if !errors.Is(err, clipcache.ErrNotFound) {
		return nil, err
	}
	return v.UniqueClip(ctx, text, phonetic)
}

// UniqueClip always renders and never touches the cache.
func (v *Voice) UniqueClip(ctx context.Context, text string, phonetic bool) (*audio.Clip, error) {
	pcm, err := v.render(ctx, text, phonetic)
	if err != nil {
		return nil, err
	}
	return v.clip(pcm), nil
}

// CachedClip returns the cached clip or renders and stores it.
func (v *Voice) CachedClip(ctx context.Context, text string, phonetic bool) (*audio.Clip, error) {
	pcm, err := v.lookup(ctx, text, phonetic)
	if err == nil {
		return v.clip(pcm), nil
	}
	if !errors.Is(err, clipcache.ErrNotFound) {
		return nil, err
	}
	pcm, err = v.render(ctx, text, phonetic)
	if err != nil {
		return nil, err
	}
	if err := v.cache.Put(ctx, v.cfg.Name, text, phonetic, pcm); err != nil {
		// the clip is still good; only caching failed
		v.logger.Warn("failed to cache clip", slog.String("error", err.Error()))
	}
	return v.clip(pcm), nil
}

// ClearCache drops every cached clip of this voice.
func (v *Voice) ClearCache(ctx context.Context) error {
	n, err := v.cache.DeleteVoice(ctx, v.cfg.Name)
	if err != nil {
		return fmt.Errorf("clear cache for %s: %w", v.cfg.Name, err)
	}
	if n > 0 {
		v.logger.Debug("cleared cached clips", slog.Int64("count", n))
	}
	return nil
}

// PreCache renders every pre_cache entry of the preset into the cache.
func (v *Voice) PreCache(ctx context.Context) error {
	var errs []error
	for _, entry := range v.Config().PreCache {
		if _, err := v.CachedClip(ctx, entry.Text, entry.Phonetic); err != nil {
			errs = append(errs, fmt.Errorf("pre-cache %q: %w", entry.Text, err))
		}
	}
	return errors.Join(errs...)
}

func (v *Voice) lookup(ctx context.Context, text string, phonetic bool) ([]byte, error) {
	return v.cache.Get(ctx, v.cfg.Name, text, phonetic)
}

func (v *Voice) render(ctx context.Context, text string, phonetic bool) ([]byte, error) {
	v.mu.RLock()
	synth := v.synth
	v.mu.RUnlock()
	return synth.SpeakContext(ctx, text, phonetic)
}

func (v *Voice) clip(pcm []byte) *audio.Clip {
	v.mu.RLock()
	padding := v.cfg.Padding
	v.mu.RUnlock()
	return audio.NewClip(pcm, padding)
}
