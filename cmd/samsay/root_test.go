package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"github.com/loqalabs/loqa-sam/internal/sam"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, voiceName, trace = "", "", false
	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPhonemesCommand(t *testing.T) {
	out, err := run(t, "phonemes", "hello", "world.")
	if err != nil {
		t.Fatalf("phonemes: %v", err)
	}
	if strings.TrimSpace(out) != "/HEHLOW WERLD." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSpeakWritesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	if _, err := run(t, "speak", "-o", path, "hello"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() || dec.SampleRate != 22050 || dec.BitDepth != 8 {
		t.Fatal("invalid wav output")
	}
}

func TestSpeakRawMatchesLibrary(t *testing.T) {
	out, err := run(t, "speak", "-o", "-", "--phonetic", "--speed", "90", "/HEH4LOW")
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	want, err := sam.New(sam.WithSpeed(90)).SpeakPhonetic("/HEH4LOW")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if !bytes.Equal([]byte(out), want) {
		t.Fatalf("expected %d bytes matching the library, got %d", len(want), len(out))
	}
}

func TestSpeakUnknownVoice(t *testing.T) {
	if _, err := run(t, "speak", "--voice", "nobody", "-o", "-", "hi"); err == nil {
		t.Fatal("expected unknown voice error")
	}
}

func TestVoicesAndVersion(t *testing.T) {
	out, err := run(t, "voices")
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	if !strings.Contains(out, "little-robot") || !strings.Contains(out, "*") {
		t.Fatalf("unexpected voices output %q", out)
	}
	out, err = run(t, "version")
	if err != nil || strings.TrimSpace(out) != version {
		t.Fatalf("unexpected version output %q %v", out, err)
	}
}
