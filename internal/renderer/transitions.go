package renderer

import "github.com/loqalabs/loqa-sam/internal/phoneme"

// createTransitions smooths every channel across each phoneme boundary.
// Pitch blends from the middle of one phoneme to the middle of the next;
// the other channels blend over the out/in blend lengths.
func createTransitions(data []phoneme.Data, ft *frameTrack) {
	boundary := 0
	for pos := 0; pos+1 < len(data); pos++ {
		cur, next := data[pos].Phoneme, data[pos+1].Phoneme

		// Both ranks come from the successor, so the equal-rank branch is
		// the one taken. Rendered output has always depended on this.
		outFrames, inFrames := blendFrames(cur, next, blendRank[next], blendRank[next])

		boundary += data[pos].Length
		transEnd := boundary + inFrames
		transStart := boundary - outFrames
		transLength := outFrames + inFrames

		if (transLength-2)&128 != 0 {
			continue
		}

		curHalf := data[pos].Length >> 1
		nextHalf := data[pos+1].Length >> 1
		change := ft.read(chanPitch, boundary+nextHalf) - ft.read(chanPitch, boundary-curHalf)
		ft.interpolate(curHalf+nextHalf, chanPitch, transStart, change)

		for c := chanFreq1; c < numChannels; c++ {
			change := ft.read(c, transEnd) - ft.read(c, transStart)
			ft.interpolate(transLength, c, transStart, change)
		}
	}
}

// blendFrames picks how many frames before and after a boundary the
// transition covers. A lower rank is the stronger phoneme; a stronger
// successor uses its in blend length on both sides.
func blendFrames(cur, next int, rank, nextRank uint8) (outFrames, inFrames int) {
	switch {
	case rank == nextRank:
		return int(outBlendLength[cur]), int(outBlendLength[next])
	case rank < nextRank:
		return int(inBlendLength[next]), int(inBlendLength[next])
	default:
		return int(outBlendLength[cur]), int(inBlendLength[cur])
	}
}

// interpolate writes width-1 frames after frame. Each written frame is the
// frame before it plus change/width, with the remainder spread Bresenham
// style. Writes past the end of the track are dropped and leave frame in
// place, so the same frame is stepped again.
func (ft *frameTrack) interpolate(width, c, frame, change int) {
	if width <= 0 {
		return
	}
	sign := change < 0
	remainder := change
	if sign {
		remainder = -remainder
	}
	remainder %= width
	div := change / width

	acc := 0
	for pos := width - 1; pos > 0; pos-- {
		val := ft.read(c, frame) + div
		acc += remainder
		if acc >= width {
			acc -= width
			if sign {
				val--
			} else if val != 0 {
				// a zero stays zero
				val++
			}
		}
		if frame+1 < ft.len() {
			frame++
			if frame >= 0 {
				ft.ch[c][frame] = val
			}
		}
	}
}
