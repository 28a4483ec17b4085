package phoneme

import (
	"errors"
	"fmt"
)

// End is returned by Sequence.Get one past the last entry.
const End = -1

// ErrInvariant marks an internal consistency failure in the pipeline.
var ErrInvariant = errors.New("phoneme: invariant violated")

// Data is one finalized phoneme ready for rendering.
type Data struct {
	Phoneme int
	Length  int
	Stress  int
}

// Sequence is the working buffer the parser passes rewrite in place.
// Methods panic with an error wrapping ErrInvariant on out-of-range
// access; callers recover at the package boundary.
type Sequence struct {
	items []Data
}

// Len returns the number of entries.
func (s *Sequence) Len() int { return len(s.items) }

// Append adds a phoneme with zero stress and length.
func (s *Sequence) Append(p int) {
	s.items = append(s.items, Data{Phoneme: p})
}

// Get returns the phoneme at pos, or End for pos == Len().
func (s *Sequence) Get(pos int) int {
	if pos == len(s.items) {
		return End
	}
	s.check(pos)
	return s.items[pos].Phoneme
}

// Set replaces the phoneme at pos.
func (s *Sequence) Set(pos, p int) {
	s.check(pos)
	s.items[pos].Phoneme = p
}

// Insert shifts everything at pos and after one slot right.
func (s *Sequence) Insert(pos, p, stress, length int) {
	if pos < 0 || pos > len(s.items) {
		invariant("insert at %d of %d", pos, len(s.items))
	}
	s.items = append(s.items, Data{})
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = Data{Phoneme: p, Stress: stress, Length: length}
}

// Stress returns the stress at pos. Reading End yields 0.
func (s *Sequence) Stress(pos int) int {
	if pos == len(s.items) {
		return 0
	}
	s.check(pos)
	return s.items[pos].Stress
}

// SetStress replaces the stress at pos.
func (s *Sequence) SetStress(pos, stress int) {
	s.check(pos)
	s.items[pos].Stress = stress
}

// Length returns the frame count at pos.
func (s *Sequence) Length(pos int) int {
	s.check(pos)
	return s.items[pos].Length
}

// SetLength replaces the frame count at pos. Lengths carrying bit 0x80
// (negative values included) are rejected.
func (s *Sequence) SetLength(pos, length int) {
	if length&0x80 != 0 {
		invariant("length %d at %d has bit 0x80", length, pos)
	}
	s.check(pos)
	s.items[pos].Length = length
}

// Has reports whether the phoneme at pos carries f. End never does.
func (s *Sequence) Has(pos int, f Flag) bool {
	return Has(s.Get(pos), f)
}

// Data returns the non-silent entries in order.
func (s *Sequence) Data() []Data {
	out := make([]Data, 0, len(s.items))
	for _, d := range s.items {
		if d.Phoneme != Pause {
			out = append(out, d)
		}
	}
	return out
}

func (s *Sequence) check(pos int) {
	if pos < 0 || pos >= len(s.items) {
		invariant("position %d out of range 0..%d", pos, len(s.items))
	}
}

func invariant(format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
}

// Recover converts a panic raised inside the pipeline into an error
// wrapping ErrInvariant. Use it deferred with a pointer to the named error
// result.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok && errors.Is(err, ErrInvariant) {
		*errp = err
		return
	}
	*errp = fmt.Errorf("%w: %v", ErrInvariant, r)
}
