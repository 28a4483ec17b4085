package reciter

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
)

func TestTranscribeKnownWords(t *testing.T) {
	cases := map[string]string{
		"":             " ",
		"HELLO":        " /HEHLOW",
		"hello world.": " /HEHLOW WERLD.",
		"LOITER":       " LOY5TER",
		"SAM":          " SAEM",
		"ringing":      " RIHNXGIHNX",
		"carefully":    " KEH4RFUHLIY",
		"1st 2nd 64":   " FER4ST SEH4KUND SIH4KSTIY FOHR",
		"Is this a question?": " IHZ DHIHS AH KWEHSCHUN?",
	}
	tr := New()
	for in, want := range cases {
		got, err := tr.Transcribe(in)
		if err != nil {
			t.Fatalf("transcribe %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("transcribe %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestTranscribeNonASCIIIsBoundary(t *testing.T) {
	got, err := New().Transcribe("cafeé")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != " KEYF " {
		t.Fatalf("expected %q, got %q", " KEYF ", got)
	}
}

func TestTranscribeUnsupportedChar(t *testing.T) {
	_, err := New().Transcribe("A`B")
	if !errors.Is(err, ErrUnsupportedChar) {
		t.Fatalf("expected ErrUnsupportedChar, got %v", err)
	}
}

func TestTranscribeAlphabetProducesPhonemeText(t *testing.T) {
	tr := New()
	for c := 'A'; c <= 'Z'; c++ {
		out, err := tr.Transcribe(string(c))
		if err != nil {
			t.Fatalf("transcribe %q: %v", c, err)
		}
		for _, r := range out {
			if !strings.ContainsRune(" ABCDEFGHIJKLMNOPQRSTUVWXYZ/12345678.,?-", r) {
				t.Fatalf("transcribe %q produced unexpected %q in %q", c, r, out)
			}
		}
	}
}

func TestRuleTablesParse(t *testing.T) {
	for _, s := range letterRules {
		r := parseRule(s)
		if r.match == "" {
			t.Fatalf("rule %q has empty match", s)
		}
		if r.match[0] < 'A' || r.match[0] > 'Z' {
			t.Fatalf("letter rule %q is keyed on %q", s, r.match[0])
		}
	}
	for c := byte('A'); c <= 'Z'; c++ {
		if len(defaultRules.letters[c]) == 0 {
			t.Fatalf("no rules for %q", c)
		}
	}
	eq := parseRule("(=)= IY4KWULZ")
	if eq.match != "=" || eq.target != " IY4KWULZ" || eq.pre != "" || eq.post != "" {
		t.Fatalf("unexpected parse %+v", eq)
	}
}

func TestSuffixMorpheme(t *testing.T) {
	cases := []struct {
		text string
		n    int
		ok   bool
	}{
		{"XING", 3, true},
		{"XE ", 1, true},
		{"XED", 2, true},
		{"XELY", 3, true},
		{"XEFUL", 4, true},
		{"XELA", 0, false},
		{"XO", 0, false},
	}
	for _, tc := range cases {
		n, ok := suffixMorpheme(tc.text, 0)
		if n != tc.n || ok != tc.ok {
			t.Fatalf("%q: expected %d %v, got %d %v", tc.text, tc.n, tc.ok, n, ok)
		}
	}
}

func TestRuleTracing(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if _, err := New(WithLogger(log)).Transcribe("SAM"); err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if !strings.Contains(buf.String(), "rule matched") {
		t.Fatalf("expected rule trace, got %q", buf.String())
	}
}

func TestContextOperators(t *testing.T) {
	cases := []struct {
		rule string
		text string
		pos  int
		want bool
	}{
		// prefix side
		{"&(A)=X", " CA", 2, true},
		{"&(A)=X", " TA", 2, false},
		{"@(A)=X", " DA", 2, true},
		{"@(A)=X", " HA", 2, false},
		{"@(A)=X", " FA", 2, false},
		{" :(A)=X", " STRA", 4, true},
		{" :(A)=X", " ESTRA", 5, false},
		{"+(A)=X", " EA", 2, true},
		{"+(A)=X", " OA", 2, false},
		{"^(A)=X", " BA", 2, true},
		{"^(A)=X", " EA", 2, false},
		{".(A)=X", " DA", 2, true},
		{".(A)=X", " TA", 2, false},
		// suffix side
		{"(A)&=X", " AJ", 1, true},
		{"(A)&=X", " ATHC", 1, true},
		{"(A)&=X", " AT", 1, false},
		{"(A)@=X", " AN", 1, true},
		{"(A)@=X", " AK", 1, false},
		{"(A):E=X", " ASTE", 1, true},
		{"(A):E=X", " ASTO", 1, false},
		{"(A)+=X", " AY", 1, true},
		{"(A)+=X", " AU", 1, false},
		{"(A)^=X", " AB", 1, true},
		{"(A)^=X", " AE", 1, false},
		{"(A).=X", " AB", 1, true},
		{"(A).=X", " AF", 1, false},
		{"(A)%=X", " AING", 1, true},
		{"(A)%=X", " AED", 1, true},
		{"(A)% =X", " AELY", 1, true},
		{"(A)%=X", " AO", 1, false},
	}
	for _, tc := range cases {
		if got := parseRule(tc.rule).matches(tc.text, tc.pos); got != tc.want {
			t.Fatalf("rule %q on %q at %d: expected %v, got %v", tc.rule, tc.text, tc.pos, tc.want, got)
		}
	}
}

func TestTranscribeContextRules(t *testing.T) {
	cases := map[string]string{
		"NATION":    " NEY5SHUN",
		"CHURCH":    " CHERCH",
		"JUDGE":     " JAH5DJ",
		"MAKING":    " MEYKIHNX",
		"HOPEFULLY": " /HOW5PFUHLIY",
		"CITY":      " SIHTIY",
		"GENTLE":    " JEHNTUL",
		"KNIGHT":    " NAY4T",
		"PHONE":     " FOW5N",
		"THOUGHT":   " THAO5T",
		"STRENGTH":  " STREHNXTH",
		"RECIPE":    " RIYSAYP",
		"BELIEVED":  " BIHLIY4VD",
		"AXE":       " EYKS",
	}
	tr := New()
	for in, want := range cases {
		got, err := tr.Transcribe(in)
		if err != nil {
			t.Fatalf("transcribe %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("transcribe %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestTranscribeRandomLetterWords(t *testing.T) {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	rng := rand.New(rand.NewSource(1))
	tr := New()
	for i := 0; i < 2000; i++ {
		words := make([]string, 1+rng.Intn(6))
		for w := range words {
			b := make([]byte, 1+rng.Intn(9))
			for k := range b {
				b[k] = letters[rng.Intn(len(letters))]
			}
			words[w] = string(b)
		}
		text := strings.Join(words, " ")
		if _, err := tr.Transcribe(text); err != nil {
			t.Fatalf("transcribe %q: %v", text, err)
		}
	}
}
