package tts

import (
	"context"
	"log/slog"
	"time"

	"github.com/loqalabs/loqa-sam/internal/sam"
	"github.com/loqalabs/loqa-sam/internal/voice"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/loqalabs/loqa-sam/tts"

type samSynth struct {
	voices     *voice.Registry
	chunkBytes int
	logger     *slog.Logger

	tracer   trace.Tracer
	requests metric.Int64Counter
	bytes    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewSamSynth renders through the voice registry and its clip cache. The
// rendered PCM is split into chunks of chunkDurationMS.
func NewSamSynth(voices *voice.Registry, chunkDurationMS int, log *slog.Logger) Synthesizer {
	s := &samSynth{
		voices:     voices,
		chunkBytes: chunkBytes(chunkDurationMS),
		logger:     log.With(slog.String("component", "tts-sam")),
		tracer:     otel.Tracer(instrumentationName),
	}
	if err := s.initMetrics(); err != nil {
		s.logger.Warn("failed to initialize metrics", slogError(err))
	}
	return s
}

func chunkBytes(durationMS int) int {
	n := sam.SampleRate * durationMS / 1000
	if n <= 0 {
		n = sam.SampleRate
	}
	return n
}

func (s *samSynth) initMetrics() error {
	meter := otel.Meter(instrumentationName)
	var err error
	if s.requests, err = meter.Int64Counter("loqa.tts.sam.requests", metric.WithDescription("Synthesis requests by voice and status")); err != nil {
		return err
	}
	if s.bytes, err = meter.Int64Counter("loqa.tts.sam.bytes", metric.WithDescription("Rendered PCM bytes"), metric.WithUnit("By")); err != nil {
		return err
	}
	if s.duration, err = meter.Float64Histogram("loqa.tts.sam.duration_ms", metric.WithDescription("Synthesis latency"), metric.WithUnit("ms")); err != nil {
		return err
	}
	return nil
}

func (s *samSynth) Synthesize(ctx context.Context, req SynthRequest) (<-chan SynthChunk, <-chan error) {
	chunks := make(chan SynthChunk)
	errs := make(chan error, 1)
	go func() {
		defer close(chunks)
		defer close(errs)

		pcm, err := s.render(ctx, req)
		if err != nil {
			errs <- err
			return
		}
		for _, chunk := range split(req.SessionID, pcm, s.chunkBytes) {
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()
	return chunks, errs
}

func (s *samSynth) render(ctx context.Context, req SynthRequest) (pcm []byte, err error) {
	ctx, span := s.tracer.Start(ctx, "tts.sam.synthesize", trace.WithAttributes(
		attribute.String("loqa.session_id", req.SessionID),
		attribute.Bool("loqa.tts.phonetic", req.Phonetic),
		attribute.Int("loqa.tts.text_length", len(req.Text)),
	))
	start := time.Now()
	voiceName := req.Voice
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		attrs := metric.WithAttributes(attribute.String("voice", voiceName), attribute.String("status", status))
		if s.requests != nil {
			s.requests.Add(ctx, 1, attrs)
		}
		if s.bytes != nil {
			s.bytes.Add(ctx, int64(len(pcm)), attrs)
		}
		if s.duration != nil {
			s.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := s.voices.Get(req.Voice)
	if err != nil {
		return nil, err
	}
	voiceName = v.Name()
	span.SetAttributes(attribute.String("loqa.tts.voice", voiceName))

	clip, err := v.CachedClip(ctx, req.Text, req.Phonetic)
	if err != nil {
		return nil, err
	}
	return clip.PCM(), nil
}

// split cuts pcm into chunks of at most size bytes. There is always at
// least one chunk and exactly the last one is final.
func split(sessionID string, pcm []byte, size int) []SynthChunk {
	var out []SynthChunk
	for seq := 0; ; seq++ {
		n := min(size, len(pcm))
		out = append(out, SynthChunk{
			SessionID:  sessionID,
			Sequence:   seq,
			SampleRate: sam.SampleRate,
			Channels:   1,
			BitDepth:   8,
			PCM:        pcm[:n],
			Final:      n == len(pcm),
		})
		pcm = pcm[n:]
		if len(pcm) == 0 {
			return out
		}
	}
}
