package parser

import "github.com/loqalabs/loqa-sam/internal/phoneme"

// rewrite applies the context rules left to right; the first rule that
// applies at a position ends processing of that position.
func (p *parser) rewrite() {
	s := &p.seq
	for pos := 0; ; pos++ {
		ph := s.Get(pos)
		if ph == phoneme.End {
			return
		}
		if ph == phoneme.Pause {
			continue
		}

		if phoneme.Has(ph, phoneme.FlagDiphthong) {
			glide := phoneme.WX
			if phoneme.Has(ph, phoneme.FlagDipYX) {
				glide = phoneme.YX
			}
			p.trace(pos, "insert glide after diphthong")
			s.Insert(pos+1, glide, s.Stress(pos), 0)
			p.rewriteUwChJ(ph, pos)
			continue
		}

		switch ph {
		case phoneme.UL:
			p.changeAX(pos, phoneme.L)
			continue
		case phoneme.UM:
			p.changeAX(pos, phoneme.M)
			continue
		case phoneme.UN:
			p.changeAX(pos, phoneme.N)
			continue
		}

		if phoneme.Has(ph, phoneme.FlagVowel) && s.Stress(pos) != 0 {
			// stressed vowel, pause, stressed vowel: glottal stop before the second
			if s.Get(pos+1) == phoneme.Pause {
				next := s.Get(pos + 2)
				if next != phoneme.End && phoneme.Has(next, phoneme.FlagVowel) && s.Stress(pos+2) != 0 {
					p.trace(pos+2, "insert glottal stop between stressed vowels")
					s.Insert(pos+2, phoneme.Q, 0, 0)
				}
			}
			continue
		}

		prior := phoneme.End
		if pos > 0 {
			prior = s.Get(pos - 1)
		}

		if ph == phoneme.R {
			switch {
			case prior == phoneme.T:
				p.trace(pos, "T* R* -> CH R*")
				s.Set(pos-1, phoneme.CH)
			case prior == phoneme.D:
				p.trace(pos, "D* R* -> J* R*")
				s.Set(pos-1, phoneme.J)
			case phoneme.Has(prior, phoneme.FlagVowel):
				p.trace(pos, "<VOWEL> R* -> <VOWEL> RX")
				s.Set(pos, phoneme.RX)
			}
			continue
		}

		if ph == phoneme.L && phoneme.Has(prior, phoneme.FlagVowel) {
			p.trace(pos, "<VOWEL> L* -> <VOWEL> LX")
			s.Set(pos, phoneme.LX)
			continue
		}

		// G followed by S*: the following phoneme decides whether S* turns
		// into GX. Historical behavior, kept as is.
		if prior == phoneme.G && ph == phoneme.S {
			next := s.Get(pos + 1)
			if !phoneme.Has(next, phoneme.FlagDipYX) && next != phoneme.End {
				p.trace(pos, "G <VOWEL OR DIPHTHONG NOT ENDING WITH IY> -> GX")
				s.Set(pos, phoneme.GX)
			}
			continue
		}

		if ph == phoneme.K {
			next := s.Get(pos + 1)
			if !phoneme.Has(next, phoneme.FlagDipYX) || next == phoneme.End {
				p.trace(pos, "K <VOWEL OR DIPHTHONG NOT ENDING WITH IY> -> KX")
				s.Set(pos, phoneme.KX)
				ph = phoneme.KX
			}
		}

		if phoneme.Has(ph, phoneme.FlagUnvoicedStop) && prior == phoneme.S {
			p.trace(pos, "S* <UNVOICED STOP> -> S* <VOICED STOP>")
			s.Set(pos, ph-12)
		} else if !phoneme.Has(ph, phoneme.FlagUnvoicedStop) {
			p.rewriteUwChJ(ph, pos)
		}

		if ph == phoneme.T || ph == phoneme.D {
			// flap a T or D between a vowel and an unstressed vowel
			if pos > 0 && s.Has(pos-1, phoneme.FlagVowel) {
				next := s.Get(pos + 1)
				if next == phoneme.Pause {
					next = s.Get(pos + 2)
				}
				if phoneme.Has(next, phoneme.FlagVowel) && s.Stress(pos+1) == 0 {
					p.trace(pos, "soften T or D following vowel -> DX")
					s.Set(pos, phoneme.DX)
				}
			}
		}
	}
}

func (p *parser) rewriteUwChJ(ph, pos int) {
	s := &p.seq
	switch ph {
	case phoneme.UW:
		if pos > 0 && s.Has(pos-1, phoneme.FlagAlveolar) {
			p.trace(pos, "<ALVEOLAR> UW -> <ALVEOLAR> UX")
			s.Set(pos, phoneme.UX)
		}
	case phoneme.CH:
		p.trace(pos, "CH -> CH CH+1")
		s.Insert(pos+1, phoneme.CH2, s.Stress(pos), 0)
	case phoneme.J:
		p.trace(pos, "J -> J J+1")
		s.Insert(pos+1, phoneme.J2, s.Stress(pos), 0)
	}
}

func (p *parser) changeAX(pos, suffix int) {
	s := &p.seq
	p.trace(pos, phoneme.Name(s.Get(pos))+" -> AX "+phoneme.Name(suffix))
	s.Set(pos, phoneme.AX)
	s.Insert(pos+1, suffix, s.Stress(pos), 0)
}
