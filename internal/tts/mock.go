package tts

import (
	"bytes"
	"context"

	"github.com/loqalabs/loqa-sam/internal/sam"
)

// silence is the unsigned 8-bit midpoint.
const silence = 0x80

// mockBytesPerChar approximates how long SAM takes per input character.
const mockBytesPerChar = sam.SampleRate / 16

type mockSynth struct {
	chunkBytes int
}

// NewMockSynth answers every request with silence shaped like SAM output:
// 8-bit mono at 22050 Hz, sized by the text and chunked like the real
// synthesizer.
func NewMockSynth(chunkDurationMS int) Synthesizer {
	return &mockSynth{chunkBytes: chunkBytes(chunkDurationMS)}
}

func (m *mockSynth) Synthesize(ctx context.Context, req SynthRequest) (<-chan SynthChunk, <-chan error) {
	chunks := make(chan SynthChunk)
	errs := make(chan error, 1)
	go func() {
		defer close(chunks)
		defer close(errs)

		pcm := bytes.Repeat([]byte{silence}, len(req.Text)*mockBytesPerChar)
		for _, chunk := range split(req.SessionID, pcm, m.chunkBytes) {
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
