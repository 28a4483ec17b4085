package clipcache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/loqalabs/loqa-sam/internal/config"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func openStore(t *testing.T, cfg config.ClipCacheConfig) *Store {
	t.Helper()
	s, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open clip cache: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenDisabled(t *testing.T) {
	s := openStore(t, config.ClipCacheConfig{Mode: "disabled"})
	if s.Enabled() {
		t.Fatal("expected disabled store")
	}
	if err := s.Put(context.Background(), "sam", "hello", false, []byte{1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Get(context.Background(), "sam", "hello", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, config.ClipCacheConfig{Mode: "memory"})

	if _, err := s.Get(ctx, "sam", "hello", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, "sam", "hello", false, []byte{1, 2, 3}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "sam", "hello", false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("unexpected pcm %v", got)
	}
	if _, err := s.Get(ctx, "sam", "hello", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected phonetic flag to be part of the key, got %v", err)
	}
	if _, err := s.Get(ctx, "elf", "hello", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected voice to be part of the key, got %v", err)
	}

	if err := s.Put(ctx, "sam", "hello", false, []byte{9}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = s.Get(ctx, "sam", "hello", false)
	if !bytes.Equal(got, []byte{9}) {
		t.Fatalf("expected replaced pcm, got %v", got)
	}

	if err := s.Put(ctx, "sam", "", true, nil); err != nil {
		t.Fatalf("put empty: %v", err)
	}
	empty, err := s.Get(ctx, "sam", "", true)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty clip, got %v (%v)", empty, err)
	}
}

func TestDeleteVoiceAndList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, config.ClipCacheConfig{Mode: "persistent", Path: filepath.Join(t.TempDir(), "clips.db")})

	for _, text := range []string{"one", "two"} {
		if err := s.Put(ctx, "sam", text, false, []byte(text)); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := s.Put(ctx, "elf", "one", false, []byte("elf")); err != nil {
		t.Fatalf("put: %v", err)
	}

	entries, err := s.List(ctx, "sam", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	n, err := s.DeleteVoice(ctx, "sam")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
	if _, err := s.Get(ctx, "elf", "one", false); err != nil {
		t.Fatalf("expected other voices untouched: %v", err)
	}
}

func TestPruneByDaysAndEntries(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, config.ClipCacheConfig{Mode: "memory", RetentionDays: 1, MaxEntries: 2})

	s.clock = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := s.Put(ctx, "sam", "old", false, []byte{1}); err != nil {
		t.Fatalf("put: %v", err)
	}

	s.clock = func() time.Time { return time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC) }
	if err := s.Put(ctx, "sam", "new", false, []byte{2}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if _, err := s.Get(ctx, "sam", "old", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old clip pruned, got %v", err)
	}

	for i, text := range []string{"a", "b", "c"} {
		s.clock = func() time.Time { return time.Date(2025, 1, 3, 0, 0, i+1, 0, time.UTC) }
		if err := s.Put(ctx, "sam", text, false, []byte{byte(i)}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	entries, err := s.List(ctx, "sam", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].Text != "c" || entries[1].Text != "b" {
		t.Fatalf("expected newest two clips kept, got %+v", entries)
	}
}
