// Package reciter converts English text to the phonetic alphabet using the
// classic letter-to-sound rule set.
package reciter

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/loqalabs/loqa-sam/internal/phoneme"
)

var (
	// ErrNoRule is returned when no rule in a bucket matches.
	ErrNoRule = errors.New("reciter: no rule matched")
	// ErrUnsupportedChar is returned for classified characters that are
	// neither letters nor handled by the symbol rules.
	ErrUnsupportedChar = errors.New("reciter: unsupported character")
)

// maxIterations bounds the transcription loop. Hitting it returns the
// output produced so far.
const maxIterations = 10000

type rule struct {
	source string
	pre    string
	match  string
	post   string
	target string
}

func parseRule(s string) rule {
	eq := strings.LastIndexByte(s, '=')
	source, target := s[:eq], s[eq+1:]
	pre := source[:strings.IndexByte(source, '(')]
	rest := source[strings.LastIndexByte(source, '(')+1:]
	closing := strings.IndexByte(rest, ')')
	return rule{
		source: source,
		pre:    pre,
		match:  rest[:closing],
		post:   rest[closing+1:],
		target: target,
	}
}

type ruleSet struct {
	letters map[byte][]rule
	symbols []rule
}

var defaultRules = compileRules(letterRules, symbolRules)

func compileRules(letters, symbols []string) *ruleSet {
	rs := &ruleSet{letters: make(map[byte][]rule)}
	for _, s := range letters {
		r := parseRule(s)
		rs.letters[r.match[0]] = append(rs.letters[r.match[0]], r)
	}
	for _, s := range symbols {
		rs.symbols = append(rs.symbols, parseRule(s))
	}
	return rs
}

// Transcriber applies the rule set. The zero value is not usable; build
// one with New. A Transcriber is safe for concurrent use.
type Transcriber struct {
	rules  *ruleSet
	logger *slog.Logger
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithLogger traces every rule firing at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(t *Transcriber) {
		if log != nil {
			t.logger = log.With(slog.String("component", "reciter"))
		}
	}
}

// New returns a Transcriber over the built-in rules.
func New(opts ...Option) *Transcriber {
	t := &Transcriber{rules: defaultRules}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe converts text into a phoneme string. Non-ASCII characters
// are read as word boundaries.
func (t *Transcriber) Transcribe(input string) (out string, err error) {
	defer phoneme.Recover(&err)

	var b strings.Builder
	b.WriteByte(' ')
	for _, r := range input {
		if r > unicode.MaxASCII {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	text := b.String()

	var output strings.Builder
	pos := 0
	for iter := 0; pos < len(text) && iter < maxIterations; iter++ {
		c := text[pos]
		if c == '.' && !flagsAt(text, pos+1, flagNumeric) {
			output.WriteByte('.')
			pos++
			continue
		}
		f := flagsOf(c)
		switch {
		case f&flagRuleset2 != 0:
			n, ok := t.apply(t.rules.symbols, text, pos, &output)
			if !ok {
				return output.String(), fmt.Errorf("%w for %q at %d", ErrNoRule, c, pos-1)
			}
			pos += n
		case f != 0:
			if f&flagAlpha == 0 {
				return output.String(), fmt.Errorf("%w %q at %d", ErrUnsupportedChar, c, pos-1)
			}
			n, ok := t.apply(t.rules.letters[c], text, pos, &output)
			if !ok {
				return output.String(), fmt.Errorf("%w for %q at %d", ErrNoRule, c, pos-1)
			}
			pos += n
		default:
			output.WriteByte(' ')
			pos++
		}
	}
	return output.String(), nil
}

func (t *Transcriber) apply(rules []rule, text string, pos int, out *strings.Builder) (int, bool) {
	for _, r := range rules {
		if !r.matches(text, pos) {
			continue
		}
		if t.logger != nil {
			t.logger.Debug("rule matched",
				slog.String("rule", r.source),
				slog.String("phonemes", r.target),
				slog.Int("position", pos-1),
			)
		}
		out.WriteString(r.target)
		return len(r.match), true
	}
	return 0, false
}

func (r rule) matches(text string, pos int) bool {
	if !strings.HasPrefix(text[pos:], r.match) {
		return false
	}
	if !r.matchPrefix(text, pos) {
		return false
	}
	return r.matchSuffix(text, pos+len(r.match)-1)
}

func isOneOf(c byte, set string) bool {
	return c != 0 && strings.IndexByte(set, c) >= 0
}

// matchPrefix walks the rule prefix right to left from the character
// before the match.
func (r rule) matchPrefix(text string, pos int) bool {
	for i := len(r.pre) - 1; i >= 0; i-- {
		op := r.pre[i]
		if flagsOf(op)&flagAlpha != 0 {
			pos--
			if charAt(text, pos) != op {
				return false
			}
			continue
		}
		var ok bool
		switch op {
		case ' ':
			pos--
			ok = !flagsAt(text, pos, flagAlpha)
		case '#':
			pos--
			ok = flagsAt(text, pos, flagVowelOrY)
		case '.':
			pos--
			ok = flagsAt(text, pos, flag08)
		case '&':
			pos--
			ok = flagsAt(text, pos, flagDiphthong)
			if !ok {
				s := substr(text, pos, 2)
				ok = s == "CH" || s == "SH"
			}
		case '@':
			pos--
			ok = voicedOrH(text, pos)
		case '^':
			pos--
			ok = flagsAt(text, pos, flagConsonant)
		case '+':
			pos--
			ok = isOneOf(charAt(text, pos), "EIY")
		case ':':
			for pos >= 0 && flagsAt(text, pos-1, flagConsonant) {
				pos--
			}
			ok = true
		}
		if !ok {
			return false
		}
	}
	return true
}

// matchSuffix walks the rule suffix left to right from the last matched
// character.
func (r rule) matchSuffix(text string, pos int) bool {
	for i := 0; i < len(r.post); i++ {
		op := r.post[i]
		if flagsOf(op)&flagAlpha != 0 {
			pos++
			if charAt(text, pos) != op {
				return false
			}
			continue
		}
		var ok bool
		switch op {
		case ' ':
			pos++
			ok = !flagsAt(text, pos, flagAlpha)
		case '#':
			pos++
			ok = flagsAt(text, pos, flagVowelOrY)
		case '.':
			pos++
			ok = flagsAt(text, pos, flag08)
		case '&':
			pos++
			ok = flagsAt(text, pos, flagDiphthong)
			if !ok {
				pos++
				s := substr(text, pos, 2)
				ok = s == "HC" || s == "HS"
			}
		case '@':
			pos++
			ok = voicedOrH(text, pos)
		case '^':
			pos++
			ok = flagsAt(text, pos, flagConsonant)
		case '+':
			pos++
			ok = isOneOf(charAt(text, pos), "EIY")
		case ':':
			for flagsAt(text, pos+1, flagConsonant) {
				pos++
			}
			ok = true
		case '%':
			var n int
			n, ok = suffixMorpheme(text, pos)
			pos += n
		}
		if !ok {
			return false
		}
	}
	return true
}

// voicedOrH implements '@'. The T/C/S test after an H can never pass, so
// reaching the end of it means the tables are corrupt.
func voicedOrH(text string, pos int) bool {
	if flagsAt(text, pos, flagVoiced) {
		return true
	}
	c := charAt(text, pos)
	if c != 'H' {
		return false
	}
	if !isOneOf(c, "TCS") {
		return false
	}
	panic(fmt.Errorf("%w: '@' reached the T/C/S branch at %d", phoneme.ErrInvariant, pos))
}

// suffixMorpheme implements '%': ING, E at word end, ER/ES/ED, ELY, EFUL.
// It returns how far the cursor advances.
func suffixMorpheme(text string, pos int) (int, bool) {
	if charAt(text, pos+1) != 'E' {
		if substr(text, pos+1, 3) == "ING" {
			return 3, true
		}
		return 0, false
	}
	if !flagsAt(text, pos+2, flagAlpha) {
		return 1, true
	}
	next := charAt(text, pos+2)
	if isOneOf(next, "RSD") {
		return 2, true
	}
	if next != 'L' {
		if substr(text, pos+2, 3) == "FUL" {
			return 4, true
		}
		return 0, false
	}
	if charAt(text, pos+3) != 'Y' {
		return 0, false
	}
	return 3, true
}
