// Package parser turns a phonetic string into the finalized phoneme list:
// tokenize, rewrite, stress, lengths, plosive release.
package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/loqalabs/loqa-sam/internal/phoneme"
)

// ErrUnknownSymbol is returned for input that is neither a phoneme nor a
// stress digit.
var ErrUnknownSymbol = errors.New("parser: unknown symbol")

// Option configures a parse.
type Option func(*parser)

// WithLogger traces every rewrite at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(p *parser) {
		if log != nil {
			p.logger = log.With(slog.String("component", "parser"))
		}
	}
}

type parser struct {
	seq    phoneme.Sequence
	logger *slog.Logger
}

// Parse runs every pass over input and returns the non-silent phonemes.
// An empty input yields an empty result.
func Parse(input string, opts ...Option) (data []phoneme.Data, err error) {
	p := &parser{}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.tokenize(input); err != nil {
		return nil, err
	}

	defer phoneme.Recover(&err)
	p.rewrite()
	p.copyStress()
	p.setBaseLengths()
	p.adjustLengths()
	p.prolongPlosives()
	return p.seq.Data(), nil
}

func (p *parser) trace(pos int, rule string) {
	if p.logger == nil {
		return
	}
	p.logger.Debug(rule, slog.Int("position", pos))
}

// tokenize prefers a two character match, then a wildcard match, then a
// stress digit for the previous phoneme.
func (p *parser) tokenize(input string) error {
	for i := 0; i < len(input); i++ {
		c1 := input[i]
		var c2 byte = ' '
		if i+1 < len(input) {
			c2 = input[i+1]
		}
		if idx, ok := phoneme.FullMatch(c1, c2); ok {
			p.seq.Append(idx)
			i++
			continue
		}
		if idx, ok := phoneme.WildMatch(c1); ok {
			p.seq.Append(idx)
			continue
		}
		stress, ok := phoneme.StressValue(c1)
		if !ok {
			return fmt.Errorf("%w %q at %d", ErrUnknownSymbol, c1, i)
		}
		if p.seq.Len() == 0 {
			// nothing to stress yet
			continue
		}
		p.seq.SetStress(p.seq.Len()-1, stress)
	}
	return nil
}
