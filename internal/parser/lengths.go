package parser

import "github.com/loqalabs/loqa-sam/internal/phoneme"

// copyStress gives a consonant the stress of the following stressed vowel
// plus one, so LOY5TER stresses the L at 6.
func (p *parser) copyStress() {
	s := &p.seq
	for pos := 0; s.Get(pos) != phoneme.End; pos++ {
		if !s.Has(pos, phoneme.FlagConsonant) {
			continue
		}
		next := s.Get(pos + 1)
		if next == phoneme.End || !phoneme.Has(next, phoneme.FlagVowel) {
			continue
		}
		if stress := s.Stress(pos + 1); stress != 0 && stress < 0x80 {
			s.SetStress(pos, stress+1)
		}
	}
}

func (p *parser) setBaseLengths() {
	s := &p.seq
	for pos := 0; ; pos++ {
		ph := s.Get(pos)
		if ph == phoneme.End {
			return
		}
		if stress := s.Stress(pos); stress == 0 || stress > 0x7F {
			s.SetLength(pos, phoneme.UnstressedLength(ph))
		} else {
			s.SetLength(pos, phoneme.StressedLength(ph))
		}
	}
}

// adjustLengths applies the duration rules:
//
//	lengthen non-fricatives and voiced phonemes before punctuation by 1.5
//	<VOWEL> <RX|LX> <CONSONANT>: vowel -1
//	<VOWEL> <UNVOICED PLOSIVE>: vowel -1/8
//	<VOWEL> <VOICED>: vowel +1/4 +1
//	<NASAL> <STOP>: nasal 5, stop 6
//	<STOP> {pause} <STOP>: both 1/2 +1
//	<STOP> <LIQUID>: liquid -2
func (p *parser) adjustLengths() {
	s := &p.seq

	for pos := 0; s.Get(pos) != phoneme.End; pos++ {
		if !s.Has(pos, phoneme.FlagPunctuation) {
			continue
		}
		punct := pos
		// back up to the last vowel
		for {
			pos--
			if !(pos > 1 && !s.Has(pos, phoneme.FlagVowel)) {
				break
			}
		}
		if pos == 0 {
			break
		}
		if pos < 0 {
			// punctuation leads the sequence; nothing precedes it
			pos = punct
			continue
		}
		for ; pos < punct; pos++ {
			if !s.Has(pos, phoneme.FlagFricative) || s.Has(pos, phoneme.FlagVoiced) {
				a := s.Length(pos)
				p.trace(pos, "lengthen <!FRICATIVE> or <VOICED> before punctuation by 1.5")
				s.SetLength(pos, (a>>1)+a+1)
			}
		}
	}

	for idx := 0; ; idx++ {
		ph := s.Get(idx)
		if ph == phoneme.End {
			return
		}
		pos := idx

		if phoneme.Has(ph, phoneme.FlagVowel) {
			pos++
			next := s.Get(pos)
			if !phoneme.Has(next, phoneme.FlagConsonant) {
				if next == phoneme.RX || next == phoneme.LX {
					pos++
					if s.Has(pos, phoneme.FlagConsonant) {
						p.trace(idx, "<VOWEL> <RX|LX> <CONSONANT>: decrease vowel by 1")
						s.SetLength(idx, s.Length(idx)-1)
					}
				}
				continue
			}
			if !phoneme.Has(next, phoneme.FlagVoiced) {
				if phoneme.Has(next, phoneme.FlagUnvoicedStop) {
					p.trace(idx, "<VOWEL> <UNVOICED PLOSIVE>: decrease vowel by 1/8")
					a := s.Length(idx)
					s.SetLength(idx, a-(a>>3))
				}
				continue
			}
			p.trace(idx, "<VOWEL> <VOICED>: increase vowel by 1/4 + 1")
			a := s.Length(idx)
			s.SetLength(idx, (a>>2)+a+1)
			continue
		}

		if phoneme.Has(ph, phoneme.FlagNasal) {
			pos++
			next := s.Get(pos)
			if next != phoneme.End && phoneme.Has(next, phoneme.FlagStop) {
				p.trace(pos, "<NASAL> <STOP CONSONANT>: set nasal = 5, consonant = 6")
				s.SetLength(pos, 6)
				s.SetLength(pos-1, 5)
			}
			continue
		}

		if phoneme.Has(ph, phoneme.FlagStop) {
			var next int
			for {
				pos++
				if next = s.Get(pos); next != phoneme.Pause {
					break
				}
			}
			if next != phoneme.End && phoneme.Has(next, phoneme.FlagStop) {
				p.trace(pos, "<STOP> {pause} <STOP>: shorten both to 1/2 + 1")
				s.SetLength(pos, (s.Length(pos)>>1)+1)
				s.SetLength(idx, (s.Length(idx)>>1)+1)
			}
			continue
		}

		if pos > 0 && phoneme.Has(ph, phoneme.FlagLiquid) && s.Has(pos-1, phoneme.FlagStop) {
			p.trace(pos, "<STOP> <LIQUID>: decrease liquid by 2")
			s.SetLength(pos, s.Length(pos)-2)
		}
	}
}

// prolongPlosives inserts the two release phonemes that follow every stop
// in the catalog. Unvoiced stops before a phoneme with flag 0x0008 or /H
// /X keep their closure only.
func (p *parser) prolongPlosives() {
	s := &p.seq
	for pos := 0; ; pos++ {
		ph := s.Get(pos)
		if ph == phoneme.End {
			return
		}
		if !phoneme.Has(ph, phoneme.FlagStop) {
			continue
		}
		if phoneme.Has(ph, phoneme.FlagUnvoicedStop) {
			next, x := phoneme.Pause, pos
			for next == phoneme.Pause {
				x++
				next = s.Get(x)
			}
			if next != phoneme.End && (phoneme.Has(next, phoneme.Flag0008) || next == phoneme.H || next == phoneme.X) {
				continue
			}
		}
		stress := s.Stress(pos)
		s.Insert(pos+1, ph+1, stress, phoneme.UnstressedLength(ph+1))
		s.Insert(pos+2, ph+2, stress, phoneme.UnstressedLength(ph+2))
		pos += 2
	}
}
