// Package renderer turns a finalized phoneme list into unsigned 8-bit
// mono PCM at 22050 Hz using a three formant synthesizer with sampled
// consonants.
package renderer

import (
	"errors"
	"fmt"

	"github.com/loqalabs/loqa-sam/internal/phoneme"
)

// SampleRate of the rendered PCM.
const SampleRate = 22050

// ErrBufferOverflow is returned when rendering needs more room than the
// fixed output capacity allows.
var ErrBufferOverflow = errors.New("renderer: output buffer overflow")

// Options are the voice parameters. Pitch is a glottal period, so lower
// values sound higher. Speed is the number of sample groups per frame.
type Options struct {
	Pitch    uint8
	Mouth    uint8
	Throat   uint8
	Speed    uint8
	SingMode bool
	// GrowableBuffer starts from a tighter estimate and grows on demand
	// instead of failing with ErrBufferOverflow.
	GrowableBuffer bool
}

// Capacity is the fixed output size for the given total frame count.
func Capacity(frames int, speed uint8) int {
	return int(float32(176.4) * float32(frames) * float32(speed))
}

// Render synthesizes data. An empty list yields empty output.
func Render(data []phoneme.Data, opts Options) (out []byte, err error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	defer phoneme.Recover(&err)

	total := 0
	for _, d := range data {
		total += d.Length
	}

	f := setMouthThroat(opts.Mouth, opts.Throat)
	ft := createFrames(data, opts.Pitch, f)
	createTransitions(data, ft)
	prepareFrames(ft, opts.SingMode)

	if opts.Speed == 0 {
		// zero capacity, and no frame would ever advance
		return nil, fmt.Errorf("%w: speed must be positive", ErrBufferOverflow)
	}
	capacity := Capacity(total, opts.Speed)
	if opts.GrowableBuffer {
		capacity = total*int(opts.Speed)*4 + 5
	}
	buf := newOutputBuffer(capacity, opts.GrowableBuffer)
	processFrames(buf, ft, int(opts.Speed))
	if buf.err != nil {
		return nil, buf.err
	}
	return buf.bytes(), nil
}
