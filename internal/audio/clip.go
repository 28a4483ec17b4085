// Package audio adapts rendered 8-bit PCM into float clips and WAV files.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// SampleRate of every clip.
	SampleRate = 22050
	// Channels of every clip.
	Channels = 1
	// PaddingSamples is the length of the fade-out tail added on request.
	PaddingSamples = 180
)

// Clip is rendered speech as float samples in [0, 1].
type Clip struct {
	Samples    []float32
	SampleRate int
	Channels   int

	pcm []byte
}

// NewClip converts unsigned 8-bit PCM. With padding, a tail of
// PaddingSamples ramps from the last sample down to silence.
func NewClip(pcm []byte, padding bool) *Clip {
	n := len(pcm)
	if padding {
		n += PaddingSamples
	}
	samples := make([]float32, n)
	for i, b := range pcm {
		samples[i] = float32(b) / 255
	}
	if padding {
		var last float32
		if len(pcm) > 0 {
			last = samples[len(pcm)-1]
		}
		for i := 0; i < PaddingSamples; i++ {
			samples[n-1-i] = float32(i) / PaddingSamples * last
		}
	}
	raw := make([]byte, len(pcm))
	copy(raw, pcm)
	return &Clip{Samples: samples, SampleRate: SampleRate, Channels: Channels, pcm: raw}
}

// PCM returns the unpadded bytes the clip was built from.
func (c *Clip) PCM() []byte { return c.pcm }

// Duration of the clip including padding.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// WriteWAV encodes the clip, padding included, as 8-bit mono WAV.
func (c *Clip) WriteWAV(w io.WriteSeeker) error {
	data := make([]int, len(c.Samples))
	for i, s := range c.Samples {
		data[i] = int(math.Round(float64(s) * 255))
	}
	return encode(w, data, c.SampleRate, c.Channels)
}

// WriteWAV encodes raw 8-bit PCM as mono WAV at SampleRate.
func WriteWAV(w io.WriteSeeker, pcm []byte) error {
	data := make([]int, len(pcm))
	for i, b := range pcm {
		data[i] = int(b)
	}
	return encode(w, data, SampleRate, Channels)
}

// EncodeWAV returns pcm as a complete WAV file.
func EncodeWAV(pcm []byte) ([]byte, error) {
	return stage(func(w io.WriteSeeker) error { return WriteWAV(w, pcm) })
}

// EncodeWAV returns the clip, padding included, as a complete WAV file.
func (c *Clip) EncodeWAV() ([]byte, error) {
	return stage(c.WriteWAV)
}

// stage runs write against a temp file and returns its contents. The
// encoder seeks back to patch the header, so it cannot stream.
func stage(write func(io.WriteSeeker) error) ([]byte, error) {
	file, err := os.CreateTemp(os.TempDir(), "loqa_sam_*.wav")
	if err != nil {
		return nil, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if err := write(file); err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind wav: %w", err)
	}
	return io.ReadAll(file)
}

func encode(w io.WriteSeeker, data []int, sampleRate, channels int) error {
	buffer := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 8,
	}
	enc := wav.NewEncoder(w, sampleRate, 8, channels, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
