package voice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/loqalabs/loqa-sam/internal/config"
	"gopkg.in/yaml.v3"
)

// LoadFile reads one voice preset. The name defaults to the file name
// without its extension.
func LoadFile(path string) (config.VoiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.VoiceConfig{}, err
	}
	var v config.VoiceConfig
	if err := yaml.Unmarshal(data, &v); err != nil {
		return config.VoiceConfig{}, fmt.Errorf("parse YAML: %w", err)
	}
	if v.Name == "" {
		v.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := config.ValidateVoice(v); err != nil {
		return config.VoiceConfig{}, err
	}
	return v, nil
}

// Loader merges the inline presets with the YAML files of a directory and
// optionally hot-reloads the directory into a Registry.
type Loader struct {
	dir      string
	base     []config.VoiceConfig
	registry *Registry
	logger   *slog.Logger
	onReload func([]config.VoiceConfig)
}

func NewLoader(dir string, base []config.VoiceConfig, registry *Registry, log *slog.Logger) *Loader {
	return &Loader{
		dir:      dir,
		base:     base,
		registry: registry,
		logger:   log.With(slog.String("component", "voice-loader"), slog.String("dir", dir)),
	}
}

// OnReload registers fn to run with the merged presets after every
// successful reload by WatchAndReload.
func (l *Loader) OnReload(fn func([]config.VoiceConfig)) { l.onReload = fn }

// LoadAll reads every .yaml and .yml file, lets them override inline
// presets of the same name and loads the result into the registry.
func (l *Loader) LoadAll(ctx context.Context) ([]config.VoiceConfig, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read voices dir %q: %w", l.dir, err)
	}

	merged := append([]config.VoiceConfig(nil), l.base...)
	index := make(map[string]int, len(merged))
	for i, v := range merged {
		index[v.Name] = i
	}
	for _, entry := range entries {
		if entry.IsDir() || !isVoiceFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		v, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", path, err)
		}
		if i, ok := index[v.Name]; ok {
			merged[i] = v
			continue
		}
		index[v.Name] = len(merged)
		merged = append(merged, v)
	}

	if err := l.registry.Load(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// WatchAndReload reloads on every change to a voice file until ctx is
// done. A reload that fails keeps the previous voices.
func (l *Loader) WatchAndReload(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", l.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isVoiceFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				presets, err := l.LoadAll(ctx)
				if err != nil {
					l.logger.Warn("voice reload failed", slog.String("error", err.Error()))
					continue
				}
				l.logger.Info("voices reloaded", slog.String("trigger", filepath.Base(event.Name)), slog.Int("voices", len(presets)))
				if l.onReload != nil {
					l.onReload(presets)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func isVoiceFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}
