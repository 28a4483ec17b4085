package renderer

import "fmt"

// Write kinds index the timetable.
const (
	kindFormant = iota
	kindUnvoiced0
	kindUnvoiced1
	kindVoiced0
	kindVoiced1
)

// outputBuffer models the sample clock: every write advances
// the position by a step that depends on the previous and current kind.
// Positions are kept in 1/50 of a sample. Like bufio.Writer the first
// failure is sticky and later writes are dropped.
type outputBuffer struct {
	buf      []byte
	pos      int
	last     int
	growable bool
	err      error
}

func newOutputBuffer(capacity int, growable bool) *outputBuffer {
	return &outputBuffer{buf: make([]byte, capacity), growable: growable}
}

// write emits five copies of a 4-bit level scaled to 8 bits.
func (b *outputBuffer) write(kind, level int) {
	v := ((level & 15) * 16) & 0xFF
	b.ary(kind, [5]int{v, v, v, v, v})
}

func (b *outputBuffer) ary(kind int, values [5]int) {
	if b.err != nil {
		return
	}
	b.pos += timetable[b.last][kind]
	at := b.pos / 50
	if at+5 > len(b.buf) {
		if !b.growable {
			b.err = fmt.Errorf("%w: need %d bytes, capacity %d", ErrBufferOverflow, at+5, len(b.buf))
			return
		}
		grown := make([]byte, 2*len(b.buf)+at+5)
		copy(grown, b.buf)
		b.buf = grown
	}
	b.last = kind
	for k, v := range values {
		b.buf[at+k] = byte(v)
	}
}

// bytes returns everything up to the current position.
func (b *outputBuffer) bytes() []byte {
	n := b.pos / 50
	out := make([]byte, n)
	copy(out, b.buf[:n])
	return out
}
