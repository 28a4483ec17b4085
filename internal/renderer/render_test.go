package renderer

import (
	"bytes"
	"errors"
	"hash/crc32"
	"testing"

	"github.com/loqalabs/loqa-sam/internal/parser"
	"github.com/loqalabs/loqa-sam/internal/phoneme"
)

var defaultOptions = Options{Pitch: 64, Mouth: 128, Throat: 128, Speed: 72}

func parsed(t *testing.T, input string) []phoneme.Data {
	t.Helper()
	data, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return data
}

func render(t *testing.T, data []phoneme.Data, opts Options) []byte {
	t.Helper()
	out, err := Render(data, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestRenderEmpty(t *testing.T) {
	out := render(t, nil, defaultOptions)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil output, got %v", out)
	}
}

func TestRenderVowelLength(t *testing.T) {
	// A pure formant phoneme emits speed groups per frame, 162/50 bytes each.
	data := []phoneme.Data{{Phoneme: 8, Length: 1}}
	opts := defaultOptions
	opts.Speed = 50
	if out := render(t, data, opts); len(out) != 162 {
		t.Fatalf("expected 162 bytes, got %d", len(out))
	}

	data[0].Length = 10
	opts.Speed = 72
	if out := render(t, data, opts); len(out) != 2332 {
		t.Fatalf("expected 2332 bytes, got %d", len(out))
	}
}

func TestRenderDeterministic(t *testing.T) {
	data := parsed(t, " /HEHLOW WERLD.")
	a := render(t, data, defaultOptions)
	b := render(t, data, defaultOptions)
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical renders")
	}
	if len(a) == 0 {
		t.Fatalf("expected audio")
	}
}

func TestRenderSpeedScalesLength(t *testing.T) {
	data := parsed(t, " DHAX KWIHK BRAWN FAAKS.")
	var prev int
	for _, speed := range []uint8{40, 72, 120} {
		opts := defaultOptions
		opts.Speed = speed
		out := render(t, data, opts)
		if len(out) <= prev {
			t.Fatalf("speed %d: expected more than %d bytes, got %d", speed, prev, len(out))
		}
		prev = len(out)
	}
}

func TestRenderVoiceParametersChangeOutput(t *testing.T) {
	data := parsed(t, " IHZ DHIHS AH KWEHSCHUN?")
	base := render(t, data, defaultOptions)

	sing := defaultOptions
	sing.SingMode = true
	if bytes.Equal(base, render(t, data, sing)) {
		t.Fatalf("expected sing mode to change output")
	}

	high := defaultOptions
	high.Pitch = 100
	if bytes.Equal(base, render(t, data, high)) {
		t.Fatalf("expected pitch to change output")
	}
}

func TestRenderGrowableMatchesFixed(t *testing.T) {
	data := parsed(t, " DHAX KWIHK BRAWN FAAKS JAHMPS OWVER DHAX LEYZIY DAAG.")
	fixed := render(t, data, defaultOptions)
	opts := defaultOptions
	opts.GrowableBuffer = true
	if grown := render(t, data, opts); !bytes.Equal(fixed, grown) {
		t.Fatalf("expected growable buffer to produce the same samples")
	}
}

func TestRenderExtremeParameters(t *testing.T) {
	data := parsed(t, " /HEHLOW WERLD.")
	for _, p := range []uint8{0, 255} {
		for _, speed := range []uint8{1, 255} {
			opts := Options{Pitch: p, Mouth: 255, Throat: 0, Speed: speed}
			if _, err := Render(data, opts); err != nil {
				t.Fatalf("pitch %d speed %d: %v", p, speed, err)
			}
		}
	}
}

func TestRenderZeroSpeed(t *testing.T) {
	opts := defaultOptions
	opts.Speed = 0
	if _, err := Render(parsed(t, "AH"), opts); !errors.Is(err, ErrBufferOverflow) {
		t.Fatalf("expected ErrBufferOverflow, got %v", err)
	}
}

func TestOutputBufferOverflow(t *testing.T) {
	b := newOutputBuffer(8, false)
	for i := 0; i < 10; i++ {
		b.write(kindFormant, 15)
	}
	if !errors.Is(b.err, ErrBufferOverflow) {
		t.Fatalf("expected overflow, got %v", b.err)
	}

	g := newOutputBuffer(8, true)
	for i := 0; i < 10; i++ {
		g.write(kindFormant, 15)
	}
	if g.err != nil {
		t.Fatalf("growable buffer failed: %v", g.err)
	}
	if got := len(g.bytes()); got != 10*162/50 {
		t.Fatalf("expected %d bytes, got %d", 10*162/50, got)
	}
}

func TestAddInflection(t *testing.T) {
	pitches := []int{127, 127, 64, 255, 64, 0}
	addInflection(pitches, 1, 5)
	want := []int{127, 127, 65, 255, 66, 0}
	for i := range want {
		if pitches[i] != want[i] {
			t.Fatalf("frame %d: expected %d, got %d (%v)", i, want[i], pitches[i], pitches)
		}
	}

	rising := []int{10, 10}
	addInflection(rising, 255, 2)
	if rising[0] != 9 || rising[1] != 8 {
		t.Fatalf("expected rising contour, got %v", rising)
	}
}

func TestInterpolate(t *testing.T) {
	ft := newFrameTrack(5)
	ft.ch[chanFreq1] = []int{0, 0, 0, 0, 10}
	ft.ch[chanFreq1][0] = 2
	ft.interpolate(4, chanFreq1, 0, 8)
	want := []int{2, 4, 6, 8, 10}
	for i := range want {
		if ft.ch[chanFreq1][i] != want[i] {
			t.Fatalf("frame %d: expected %d, got %v", i, want[i], ft.ch[chanFreq1])
		}
	}
}

func TestSetMouthThroat(t *testing.T) {
	f := setMouthThroat(128, 128)
	for i := 5; i <= 29; i++ {
		if v := int(freq1[i]); v != 0 && f.freq1[i] != ((v*128)>>8)<<1 {
			t.Fatalf("phoneme %d: unexpected rescale %d", i, f.freq1[i])
		}
	}
	if f.freq1[0] != int(freq1[0]) || f.freq1[40] != int(freq1[40]) {
		t.Fatalf("expected phonemes outside the vowel ranges to keep their formants")
	}
}

func TestSampleTablePages(t *testing.T) {
	first := []uint8{0x38, 0x07, 0x4E, 0x01, 0xC0}
	last := []uint8{0x58, 0xC1, 0xAE, 0x9F, 0xFC}
	for page := range first {
		if got := sampleTable[page*256]; got != first[page] {
			t.Fatalf("page %d: expected first byte %#02x, got %#02x", page, first[page], got)
		}
		if got := sampleTable[page*256+255]; got != last[page] {
			t.Fatalf("page %d: expected last byte %#02x, got %#02x", page, last[page], got)
		}
	}
	head := []uint8{0x38, 0x84, 0x6B, 0x19, 0xC6, 0x63, 0x18, 0x86, 0x73, 0x98, 0xC6, 0xB1, 0x1C, 0xCA, 0x31, 0x8C}
	if !bytes.Equal(sampleTable[:16], head) {
		t.Fatalf("unexpected table head % X", sampleTable[:16])
	}
}

func TestRenderSampledConsonants(t *testing.T) {
	cases := []struct {
		input string
		size  int
		sum   uint32
	}{
		// S is unvoiced and takes the sampled frame path.
		{input: "SIY", size: 4178, sum: 0x2d13c7f2},
		// Z is voiced and plays its sample when the glottal pulse closes.
		{input: "ZAH", size: 3131, sum: 0x1af55b77},
	}
	for _, tc := range cases {
		out := render(t, parsed(t, tc.input), defaultOptions)
		if len(out) != tc.size {
			t.Fatalf("%s: expected %d bytes, got %d", tc.input, tc.size, len(out))
		}
		if sum := crc32.ChecksumIEEE(out); sum != tc.sum {
			t.Fatalf("%s: expected checksum %#08x, got %#08x", tc.input, tc.sum, sum)
		}
	}
}

func TestRenderSampleVoiced(t *testing.T) {
	out := newOutputBuffer(4096, false)
	// Pitch 64 plays five table bytes starting at the carried offset.
	next := renderSample(out, 3, 0x01, 64)
	if next != 8 {
		t.Fatalf("expected offset 8, got %d", next)
	}
	pcm := out.bytes()
	if len(pcm) != 44 || crc32.ChecksumIEEE(pcm) != 0x33bae1ad {
		t.Fatalf("unexpected voiced sample: %d bytes % X", len(pcm), pcm)
	}
	// 0x19 starts with three clear bits at level 6, then a set bit at level 26&15.
	if pcm[2] != 0x60 || pcm[5] != 0xA0 {
		t.Fatalf("unexpected levels % X", pcm[:12])
	}
}

func TestRenderSampleUnvoiced(t *testing.T) {
	out := newOutputBuffer(8192, false)
	next := renderSample(out, 3, 0xF1, 64)
	if next != 3 {
		t.Fatalf("expected offset to be left at 3, got %d", next)
	}
	pcm := out.bytes()
	if len(pcm) != 2310 || crc32.ChecksumIEEE(pcm) != 0xa4a7d920 {
		t.Fatalf("unexpected unvoiced sample: %d bytes", len(pcm))
	}
}

func TestRenderSampleUnknownKind(t *testing.T) {
	out := newOutputBuffer(64, false)
	if next := renderSample(out, 7, 0x08, 64); next != 7 || len(out.bytes()) != 0 {
		t.Fatalf("expected flags without a page to be ignored")
	}
}

func TestBlendFrames(t *testing.T) {
	cur, next := 8, 32
	cases := []struct {
		name           string
		rank, nextRank uint8
		out, in        int
	}{
		{name: "equal", rank: 2, nextRank: 2, out: int(outBlendLength[cur]), in: int(outBlendLength[next])},
		{name: "stronger next", rank: 1, nextRank: 2, out: int(inBlendLength[next]), in: int(inBlendLength[next])},
		{name: "stronger current", rank: 3, nextRank: 2, out: int(outBlendLength[cur]), in: int(inBlendLength[cur])},
	}
	for _, tc := range cases {
		out, in := blendFrames(cur, next, tc.rank, tc.nextRank)
		if out != tc.out || in != tc.in {
			t.Fatalf("%s: expected %d/%d, got %d/%d", tc.name, tc.out, tc.in, out, in)
		}
	}
}

func TestInterpolatePastEnd(t *testing.T) {
	ft := newFrameTrack(3)
	ft.ch[chanFreq1] = []int{1, 0, 0}
	ft.interpolate(5, chanFreq1, 0, 8)
	// Each write adds 8/5 to the frame before it; steps past the end of the
	// track are dropped.
	want := []int{1, 2, 4}
	for i := range want {
		if ft.ch[chanFreq1][i] != want[i] {
			t.Fatalf("frame %d: expected %d, got %v", i, want[i], ft.ch[chanFreq1])
		}
	}
}
