package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"github.com/loqalabs/loqa-sam/internal/capability"
	"github.com/loqalabs/loqa-sam/internal/clipcache"
	"github.com/loqalabs/loqa-sam/internal/config"
	"github.com/loqalabs/loqa-sam/internal/voice"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache, err := clipcache.Open(ctx, config.ClipCacheConfig{Mode: "memory"}, log)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	voices := voice.NewRegistry("sam", cache, log)
	if err := voices.Load(ctx, config.DefaultVoices()); err != nil {
		t.Fatalf("load voices: %v", err)
	}
	return (&api{
		voices: voices,
		nodes: staticNodes{
			{ID: "sam-a", Role: "tts", Healthy: true, Capabilities: []capability.Capability{{Name: "tts.sam.voice", Tier: "fast"}}},
			{ID: "stt-b", Role: "stt", Healthy: false, Capabilities: []capability.Capability{{Name: "stt.whisper", Tier: "balanced"}}},
		},
		maxTextBytes: 64,
		metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
		health: func() bool { return true },
		ready:  func() bool { return false },
		logger: log,
	}).routes()
}

type staticNodes []capability.NodeInfo

func (s staticNodes) Query(filters ...capability.Filter) []capability.NodeInfo {
	var out []capability.NodeInfo
	for _, n := range s {
		keep := true
		for _, f := range filters {
			keep = keep && f(n)
		}
		if keep {
			out = append(out, n)
		}
	}
	return out
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthReadyMetrics(t *testing.T) {
	h := newTestAPI(t)
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz: expected 503, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK || rec.Body.String() != "# metrics" {
		t.Fatalf("metrics: %d %q", rec.Code, rec.Body.String())
	}
}

func TestTTSWav(t *testing.T) {
	h := newTestAPI(t)
	rec := do(t, h, http.MethodPost, "/v1/tts", `{"text":"hello world."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "audio/wav" || rec.Header().Get("X-Loqa-Session") == "" {
		t.Fatalf("unexpected headers %v", rec.Header())
	}
	dec := wav.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	if !dec.IsValidFile() || dec.SampleRate != 22050 || dec.BitDepth != 8 {
		t.Fatalf("invalid wav response")
	}
}

func TestTTSRawMatchesPhonetic(t *testing.T) {
	h := newTestAPI(t)
	text := do(t, h, http.MethodPost, "/v1/tts", `{"text":"hello world.","format":"raw"}`)
	phonetic := do(t, h, http.MethodPost, "/v1/tts", `{"text":" /HEHLOW WERLD.","phonetic":true,"format":"raw"}`)
	if text.Code != http.StatusOK || phonetic.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", text.Code, phonetic.Code)
	}
	if text.Body.Len() == 0 || !bytes.Equal(text.Body.Bytes(), phonetic.Body.Bytes()) {
		t.Fatal("expected text and its transcription to render identically")
	}
}

func TestTTSErrors(t *testing.T) {
	h := newTestAPI(t)
	cases := []struct {
		body string
		code int
	}{
		{`not json`, http.StatusBadRequest},
		{`{"text":"  "}`, http.StatusBadRequest},
		{`{"text":"hi","format":"mp3"}`, http.StatusBadRequest},
		{`{"text":"hi","voice":"nobody"}`, http.StatusNotFound},
		{`{"text":"AH!","phonetic":true}`, http.StatusUnprocessableEntity},
		{`{"text":"` + strings.Repeat("a", 65) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		if rec := do(t, h, http.MethodPost, "/v1/tts", tc.body); rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.code, rec.Code)
		}
	}
}

func TestVoices(t *testing.T) {
	rec := do(t, newTestAPI(t), http.MethodGet, "/v1/voices", "")
	var resp voicesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Default != "sam" || len(resp.Voices) != len(config.DefaultVoices()) {
		t.Fatalf("unexpected voices %+v", resp)
	}
}

func TestPhonemes(t *testing.T) {
	h := newTestAPI(t)
	rec := do(t, h, http.MethodGet, "/v1/phonemes?text=hello+world.", "")
	var resp phonemesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Phonemes != " /HEHLOW WERLD." || resp.Voice != "sam" {
		t.Fatalf("unexpected transcription %+v", resp)
	}
	if rec := do(t, h, http.MethodGet, "/v1/phonemes", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without text, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/v1/phonemes?text=A%60B", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unsupported character, got %d", rec.Code)
	}
}

func TestNodes(t *testing.T) {
	h := newTestAPI(t)
	cases := []struct {
		target string
		want   []string
	}{
		{"/v1/nodes", []string{"sam-a", "stt-b"}},
		{"/v1/nodes?capability=tts.sam.voice", []string{"sam-a"}},
		{"/v1/nodes?tier=balanced", []string{"stt-b"}},
		{"/v1/nodes?healthy=true", []string{"sam-a"}},
		{"/v1/nodes?capability=tts.sam.voice&tier=balanced", nil},
	}
	for _, tc := range cases {
		rec := do(t, h, http.MethodGet, tc.target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.target, rec.Code)
		}
		var resp nodesResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", tc.target, err)
		}
		var ids []string
		for _, n := range resp.Nodes {
			ids = append(ids, n.ID)
		}
		if strings.Join(ids, ",") != strings.Join(tc.want, ",") {
			t.Fatalf("%s: expected %v, got %v", tc.target, tc.want, ids)
		}
	}
}

func TestNodesWithoutRegistry(t *testing.T) {
	h := (&api{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}).routes()
	if rec := do(t, h, http.MethodGet, "/v1/nodes", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
