package runtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/loqalabs/loqa-sam/internal/capability"
	"github.com/loqalabs/loqa-sam/internal/config"
	"github.com/loqalabs/loqa-sam/internal/parser"
	"github.com/loqalabs/loqa-sam/internal/reciter"
	"github.com/loqalabs/loqa-sam/internal/voice"
)

// nodeQuerier lists the nodes seen on the control bus.
type nodeQuerier interface {
	Query(filters ...capability.Filter) []capability.NodeInfo
}

// api serves synthesis over HTTP.
type api struct {
	voices       *voice.Registry
	nodes        nodeQuerier
	maxTextBytes int
	metrics      http.Handler
	health       func() bool
	ready        func() bool
	logger       *slog.Logger
}

type ttsRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Phonetic bool   `json:"phonetic"`
	Format   string `json:"format"`
}

type phonemesResponse struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Phonemes string `json:"phonemes"`
}

type nodesResponse struct {
	Nodes []capability.NodeInfo `json:"nodes"`
}

type voicesResponse struct {
	Default string               `json:"default"`
	Voices  []config.VoiceConfig `json:"voices"`
}

func (a *api) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", a.handleHealth)
	r.Get("/readyz", a.handleReady)
	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tts", a.handleTTS)
		r.Get("/voices", a.handleVoices)
		r.Get("/phonemes", a.handlePhonemes)
		r.Get("/nodes", a.handleNodes)
	})
	return r
}

func (a *api) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if a.health != nil && !a.health() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unhealthy"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *api) handleReady(w http.ResponseWriter, _ *http.Request) {
	if a.ready != nil && a.ready() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}

func (a *api) handleTTS(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	w.Header().Set("X-Loqa-Session", sessionID)

	r.Body = http.MaxBytesReader(w, r.Body, int64(a.maxTextBytes)+4096)
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}
	if len(req.Text) > a.maxTextBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "text too long"})
		return
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = "wav"
	}
	if format != "wav" && format != "raw" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be wav or raw"})
		return
	}

	v, err := a.voices.Get(req.Voice)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	clip, err := v.CachedClip(r.Context(), req.Text, req.Phonetic)
	if err != nil {
		a.logger.Warn("http synthesis failed",
			slog.String("session_id", sessionID),
			slog.String("voice", v.Name()),
			slog.String("error", err.Error()))
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	var body []byte
	contentType := "application/octet-stream"
	if format == "wav" {
		if body, err = clip.EncodeWAV(); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		contentType = "audio/wav"
	} else {
		body = clip.PCM()
	}

	a.logger.Info("http synthesis",
		slog.String("session_id", sessionID),
		slog.String("voice", v.Name()),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", clip.Duration()))
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (a *api) handleVoices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, voicesResponse{Default: a.voices.DefaultName(), Voices: a.voices.List()})
}

func (a *api) handlePhonemes(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		return
	}
	if len(text) > a.maxTextBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "text too long"})
		return
	}
	v, err := a.voices.Get(r.URL.Query().Get("voice"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	phonemes, err := v.Phonemes(text)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, phonemesResponse{Text: text, Voice: v.Name(), Phonemes: phonemes})
}

// handleNodes lists known nodes, optionally narrowed by ?capability=,
// ?tier= and ?healthy=true.
func (a *api) handleNodes(w http.ResponseWriter, r *http.Request) {
	if a.nodes == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "capability registry unavailable"})
		return
	}
	q := r.URL.Query()
	var filters []capability.Filter
	if name := q.Get("capability"); name != "" {
		filters = append(filters, capability.WithCapabilityFilter(name))
	}
	if tier := q.Get("tier"); tier != "" {
		filters = append(filters, capability.WithTierFilter(tier))
	}
	if q.Get("healthy") == "true" {
		filters = append(filters, capability.WithHealthyFilter())
	}
	writeJSON(w, http.StatusOK, nodesResponse{Nodes: a.nodes.Query(filters...)})
}

// statusFor maps input errors to 4xx and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, voice.ErrUnknownVoice):
		return http.StatusNotFound
	case errors.Is(err, reciter.ErrUnsupportedChar),
		errors.Is(err, reciter.ErrNoRule),
		errors.Is(err, parser.ErrUnknownSymbol):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
