package renderer

// prepareFrames lowers the pitch by half the first formant so the glottal
// period tracks the vowel, unless the voice sings, and maps the 4-bit
// amplitudes onto the mixer scale.
func prepareFrames(ft *frameTrack, singMode bool) {
	for i := 0; i < ft.len(); i++ {
		if !singMode {
			ft.ch[chanPitch][i] -= ft.ch[chanFreq1][i] >> 1
		}
		for c := chanAmpl1; c <= chanAmpl3; c++ {
			ft.ch[c][i] = int(amplitudeRescale[ft.ch[c][i]&0x0F])
		}
	}
}

// processFrames runs the formant oscillators frame by frame. Each frame
// lasts speed groups of five samples; a glottal pulse restarts the phases
// every pitch groups. Frames flagged for sampled playback hand over to
// renderSample instead.
func processFrames(out *outputBuffer, ft *frameTrack, speed int) {
	n := ft.len()
	if n == 0 {
		return
	}
	pitch := ft.ch[chanPitch]
	f1, f2, f3 := ft.ch[chanFreq1], ft.ch[chanFreq2], ft.ch[chanFreq3]
	a1, a2, a3 := ft.ch[chanAmpl1], ft.ch[chanAmpl2], ft.ch[chanAmpl3]

	frameCount := n
	speedCounter := speed
	var phase1, phase2, phase3 int
	lastSampleOffset := 0
	pos := 0
	glottal := pitch[0]
	closing := int(float32(glottal) * 0.75)

	for frameCount > 0 && out.err == nil {
		flags := ft.flags[pos]

		if flags&248 != 0 {
			lastSampleOffset = renderSample(out, lastSampleOffset, flags, pitch[pos&0xFF])
			pos += 2
			frameCount -= 2
			speedCounter = speed
		} else {
			var ary [5]int
			p1, p2, p3 := phase1*256, phase2*256, phase3*256
			for k := 0; k < 5; k++ {
				sp1 := int(int8(sinus[(p1>>8)&0xFF]))
				sp2 := int(int8(sinus[(p2>>8)&0xFF]))
				rect := 0x70
				if (p3>>8)&0xFF < 129 {
					rect = -0x70
				}
				sum := sp1*(a1[pos]&0x0F) + sp2*(a2[pos]&0x0F) + rect*(a3[pos]&0x0F)
				ary[k] = sum/32 + 128
				p1 += f1[pos] * 256 / 4
				p2 += f2[pos] * 256 / 4
				p3 += f3[pos] * 256 / 4
			}
			out.ary(kindFormant, ary)

			speedCounter--
			if speedCounter == 0 {
				pos++
				frameCount--
				if frameCount == 0 {
					return
				}
				speedCounter = speed
			}

			glottal--
			if glottal != 0 {
				closing--
				if closing != 0 || flags == 0 {
					phase1 += f1[pos]
					phase2 += f2[pos]
					phase3 += f3[pos]
					continue
				}
				lastSampleOffset = renderSample(out, lastSampleOffset, flags, pitch[pos&0xFF])
			}
		}

		at := pos
		if at > n-1 {
			at = n - 1
		}
		glottal = pitch[at]
		closing = int(float32(glottal) * 0.75)
		phase1, phase2, phase3 = 0, 0, 0
	}
}

// renderSample plays one page of the sample table bit by bit. Voiced
// consonants play a pitch-dependent run starting where the previous one
// stopped and return the new offset; unvoiced ones play the tail of the
// page and leave the offset alone.
func renderSample(out *outputBuffer, lastSampleOffset, flags, pitch int) int {
	kind := (flags & 7) - 1
	if kind < 0 || kind >= len(sampledConsonantValues0) {
		return lastSampleOffset
	}
	page := kind * 256
	offset := flags & 248

	emit := func(kind1, level1, kind0, level0 int) {
		sample := int(sampleTable[page+offset])
		for bit := 0; bit < 8; bit++ {
			if sample&128 != 0 {
				out.write(kind1, level1)
			} else {
				out.write(kind0, level0)
			}
			sample <<= 1
		}
	}

	if offset == 0 {
		phase := ((pitch >> 4) ^ 255) & 0xFF
		offset = lastSampleOffset & 0xFF
		for {
			emit(kindVoiced0, 26, kindVoiced1, 6)
			offset = (offset + 1) & 0xFF
			phase++
			if phase&0xFF == 0 {
				return offset
			}
		}
	}

	offset ^= 255
	level0 := int(sampledConsonantValues0[kind])
	for {
		emit(kindUnvoiced1, 5, kindUnvoiced0, level0)
		offset++
		if offset&0xFF == 0 {
			return lastSampleOffset
		}
	}
}
