package tts

import "context"

// SynthRequest contains parameters to synthesize speech.
type SynthRequest struct {
	SessionID string
	Text      string
	Voice     string
	// Phonetic marks Text as phonetic input.
	Phonetic bool
}

// SynthChunk contains PCM data.
type SynthChunk struct {
	SessionID  string
	Sequence   int
	SampleRate int
	Channels   int
	BitDepth   int
	PCM        []byte
	Final      bool
}

// Synthesizer is the contract for producing audio. Implementations close
// both channels when done; at most one error is delivered.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthRequest) (<-chan SynthChunk, <-chan error)
}
