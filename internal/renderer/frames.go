package renderer

import "github.com/loqalabs/loqa-sam/internal/phoneme"

// Frame track channels, in the order the transition pass walks them.
const (
	chanPitch = iota
	chanFreq1
	chanFreq2
	chanFreq3
	chanAmpl1
	chanAmpl2
	chanAmpl3
	numChannels
)

// formants is the per-phoneme formant table after mouth and throat
// rescaling.
type formants struct {
	freq1, freq2 [phoneme.Count]int
}

// setMouthThroat rescales the first two formants of the vowel and liquid
// ranges. The third formant is fixed.
func setMouthThroat(mouth, throat uint8) formants {
	var f formants
	for i := 0; i < phoneme.Count; i++ {
		f.freq1[i] = int(freq1[i])
		f.freq2[i] = int(freq2[i])
	}
	rescale := func(lo, hi int) {
		for i := lo; i <= hi; i++ {
			if v := int(freq1[i]); v != 0 {
				f.freq1[i] = transpose(int(mouth), v)
			}
			if v := int(freq2[i]); v != 0 {
				f.freq2[i] = transpose(int(throat), v)
			}
		}
	}
	rescale(5, 29)
	rescale(48, 53)
	return f
}

func transpose(factor, v int) int {
	return (((factor * v) >> 8) & 0xFF) << 1
}

// frameTrack holds one value per channel per frame.
type frameTrack struct {
	ch    [numChannels][]int
	flags []int
}

func newFrameTrack(n int) *frameTrack {
	ft := &frameTrack{flags: make([]int, n)}
	for c := range ft.ch {
		ft.ch[c] = make([]int, n)
	}
	return ft
}

func (ft *frameTrack) len() int { return len(ft.flags) }

// read returns 0 outside the track.
func (ft *frameTrack) read(c, frame int) int {
	if frame < 0 || frame >= ft.len() {
		return 0
	}
	return ft.ch[c][frame]
}

// createFrames expands every phoneme into Length frames. Punctuation
// applies an intonation contour to the frames already written.
func createFrames(data []phoneme.Data, pitch uint8, f formants) *frameTrack {
	total := 0
	for _, d := range data {
		total += d.Length
	}
	ft := newFrameTrack(total)

	x := 0
	for _, d := range data {
		ph := d.Phoneme
		switch ph {
		case phoneme.Period:
			addInflection(ft.ch[chanPitch], 1, x)
		case phoneme.Question:
			addInflection(ft.ch[chanPitch], 255, x)
		}

		stress := d.Stress
		if stress < 0 || stress >= len(stressPitch) {
			stress = 0
		}
		p := (int(pitch) + int(stressPitch[stress])) & 0xFF
		for k := 0; k < d.Length; k++ {
			ft.ch[chanPitch][x] = p
			ft.ch[chanFreq1][x] = f.freq1[ph]
			ft.ch[chanFreq2][x] = f.freq2[ph]
			ft.ch[chanFreq3][x] = int(freq3[ph])
			ft.ch[chanAmpl1][x] = int(ampl1[ph])
			ft.ch[chanAmpl2][x] = int(ampl2[ph])
			ft.ch[chanAmpl3][x] = int(ampl3[ph])
			ft.flags[x] = int(sampledConsonantFlags[ph])
			x++
		}
	}
	return ft
}

// addInflection walks the 30 frames before end, stepping the pitch by
// inflection (1 falls, 255 rises) on every frame that does not hold 255.
func addInflection(pitches []int, inflection, end int) {
	pos := end - 30
	if pos < 0 {
		pos = 0
	}
	for pos < end && pitches[pos] == 127 {
		pos++
	}
	if pos >= end {
		return
	}
	a := pitches[pos]
	for pos != end {
		a += inflection
		pitches[pos] = a & 0xFF
		for {
			pos++
			if pos == end || pitches[pos] != 255 {
				break
			}
		}
	}
}
