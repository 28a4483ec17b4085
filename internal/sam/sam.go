// Package sam is the public face of the synthesizer: English text or
// phonetic input in, unsigned 8-bit mono PCM at 22050 Hz out.
package sam

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loqalabs/loqa-sam/internal/parser"
	"github.com/loqalabs/loqa-sam/internal/phoneme"
	"github.com/loqalabs/loqa-sam/internal/reciter"
	"github.com/loqalabs/loqa-sam/internal/renderer"
)

// SampleRate of every rendered buffer.
const SampleRate = renderer.SampleRate

// ErrInvariant wraps internal consistency failures recovered by Synth.
var ErrInvariant = phoneme.ErrInvariant

// Options are the voice parameters. Pitch is a period, so lower sounds
// higher; Speed is frames per phoneme unit, so lower is faster.
type Options struct {
	Pitch    uint8 `yaml:"pitch" json:"pitch"`
	Mouth    uint8 `yaml:"mouth" json:"mouth"`
	Throat   uint8 `yaml:"throat" json:"throat"`
	Speed    uint8 `yaml:"speed" json:"speed"`
	SingMode bool  `yaml:"sing_mode" json:"sing_mode"`
}

// DefaultOptions is the stock voice.
func DefaultOptions() Options {
	return Options{Pitch: 64, Mouth: 128, Throat: 128, Speed: 72}
}

// Synth renders speech with a fixed set of options. It holds no mutable
// state and is safe for concurrent use.
type Synth struct {
	opts     Options
	growable bool
	logger   *slog.Logger
	reciter  *reciter.Transcriber
}

// Option configures a Synth.
type Option func(*Synth)

// WithPitch and the setters below override single voice parameters.
func WithPitch(v uint8) Option { return func(s *Synth) { s.opts.Pitch = v } }
func WithMouth(v uint8) Option { return func(s *Synth) { s.opts.Mouth = v } }
func WithThroat(v uint8) Option { return func(s *Synth) { s.opts.Throat = v } }
func WithSpeed(v uint8) Option { return func(s *Synth) { s.opts.Speed = v } }
func WithSingMode(v bool) Option { return func(s *Synth) { s.opts.SingMode = v } }
func WithOptions(o Options) Option { return func(s *Synth) { s.opts = o } }

// WithGrowableBuffer lets the output grow instead of failing when the
// fixed capacity estimate is exceeded.
func WithGrowableBuffer() Option { return func(s *Synth) { s.growable = true } }

// WithLogger enables debug tracing of transcription and parser rules.
func WithLogger(log *slog.Logger) Option { return func(s *Synth) { s.logger = log } }

// New builds a Synth from DefaultOptions and opts.
func New(opts ...Option) *Synth {
	s := &Synth{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(s)
	}
	s.reciter = reciter.New(reciter.WithLogger(s.logger))
	return s
}

// Options returns the voice parameters in use.
func (s *Synth) Options() Options { return s.opts }

// Phonemes transcribes English text to the phonetic alphabet.
func (s *Synth) Phonemes(text string) (string, error) {
	out, err := s.reciter.Transcribe(text)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return out, nil
}

// Speak transcribes text and renders it.
func (s *Synth) Speak(text string) ([]byte, error) {
	phonetic, err := s.Phonemes(text)
	if err != nil {
		return nil, err
	}
	return s.SpeakPhonetic(phonetic)
}

// SpeakPhonetic renders phonetic input directly. Input that reduces to
// silence renders as an empty buffer.
func (s *Synth) SpeakPhonetic(phonetic string) (pcm []byte, err error) {
	defer phoneme.Recover(&err)

	data, err := parser.Parse(phonetic, parser.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("parse phonemes: %w", err)
	}
	pcm, err = renderer.Render(data, renderer.Options{
		Pitch:          s.opts.Pitch,
		Mouth:          s.opts.Mouth,
		Throat:         s.opts.Throat,
		Speed:          s.opts.Speed,
		SingMode:       s.opts.SingMode,
		GrowableBuffer: s.growable,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return pcm, nil
}

// SpeakContext is Speak, or SpeakPhonetic when phonetic is set. Rendering
// itself cannot be interrupted; ctx is only checked before starting.
func (s *Synth) SpeakContext(ctx context.Context, text string, phonetic bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if phonetic {
		return s.SpeakPhonetic(text)
	}
	return s.Speak(text)
}
