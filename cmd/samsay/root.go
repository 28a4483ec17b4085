package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loqalabs/loqa-sam/internal/audio"
	"github.com/loqalabs/loqa-sam/internal/config"
	"github.com/loqalabs/loqa-sam/internal/sam"
	"github.com/loqalabs/loqa-sam/internal/voice"
)

var (
	cfgFile   string
	voiceName string
	trace     bool
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "samsay",
		Short:         "Speak English text with the SAM formant synthesizer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file with voice presets (default: built-in presets)")
	root.PersistentFlags().StringVarP(&voiceName, "voice", "V", "", "voice preset (default: tts.voice from config)")
	root.PersistentFlags().BoolVar(&trace, "trace", false, "log every transcription and parser rule to stderr")

	root.AddCommand(speakCmd())
	root.AddCommand(phonemesCmd())
	root.AddCommand(voicesCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

func speakCmd() *cobra.Command {
	var (
		output   string
		phonetic bool
		raw      bool
		pitch    uint8
		mouth    uint8
		throat   uint8
		speed    uint8
		sing     bool
	)
	cmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "Render text to an 8-bit 22050 Hz WAV file",
		Long: `Render text to audio. Plain English is transcribed first; with
--phonetic the input is taken as SAM phoneme codes such as "/HEH4LOW".
Use -o - to write raw unsigned 8-bit PCM to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := selectVoice(cmd.Context())
			if err != nil {
				return err
			}
			opts := voice.OptionsOf(preset)
			flags := cmd.Flags()
			if flags.Changed("pitch") {
				opts.Pitch = pitch
			}
			if flags.Changed("mouth") {
				opts.Mouth = mouth
			}
			if flags.Changed("throat") {
				opts.Throat = throat
			}
			if flags.Changed("speed") {
				opts.Speed = speed
			}
			if flags.Changed("sing") {
				opts.SingMode = sing
			}

			synth := sam.New(sam.WithOptions(opts), sam.WithLogger(traceLogger(cmd.ErrOrStderr())))
			text := strings.Join(args, " ")
			pcm, err := synth.SpeakContext(cmd.Context(), text, phonetic)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(pcm)
				return err
			}
			clip := audio.NewClip(pcm, preset.Padding && !raw)
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer file.Close()
			if err := clip.WriteWAV(file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %s)\n", output, len(pcm), clip.Duration())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "out.wav", "output WAV file, or - for raw PCM on stdout")
	f.BoolVarP(&phonetic, "phonetic", "p", false, "input is phonetic")
	f.BoolVar(&raw, "no-padding", false, "skip the fade-out tail even if the voice asks for it")
	f.Uint8Var(&pitch, "pitch", 64, "pitch 0-255")
	f.Uint8Var(&mouth, "mouth", 128, "mouth 0-255")
	f.Uint8Var(&throat, "throat", 128, "throat 0-255")
	f.Uint8Var(&speed, "speed", 72, "speed 1-255, higher is slower")
	f.BoolVar(&sing, "sing", false, "sing mode: keep pitch flat")
	return cmd
}

func phonemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phonemes [text]",
		Short: "Print the phonetic transcription of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			synth := sam.New(sam.WithLogger(traceLogger(cmd.ErrOrStderr())))
			out, err := synth.Phonemes(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func voicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the configured voice presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, registry, err := loadVoices(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPITCH\tMOUTH\tTHROAT\tSPEED\tSING\tDEFAULT")
			for _, v := range registry.List() {
				def := ""
				if v.Name == cfg.TTS.Voice {
					def = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%t\t%s\n", v.Name, v.Pitch, v.Mouth, v.Throat, v.Speed, v.SingMode, def)
			}
			return w.Flush()
		},
	}
}

// loadVoices builds a registry the same way samd does, without a cache.
func loadVoices(ctx context.Context) (config.Config, *voice.Registry, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, nil, err
	}
	registry := voice.NewRegistry(cfg.TTS.Voice, nil, quietLogger())
	if cfg.VoicesDir != "" {
		_, err = voice.NewLoader(cfg.VoicesDir, cfg.Voices, registry, quietLogger()).LoadAll(ctx)
	} else {
		err = registry.Load(ctx, cfg.Voices)
	}
	return cfg, registry, err
}

func selectVoice(ctx context.Context) (config.VoiceConfig, error) {
	_, registry, err := loadVoices(ctx)
	if err != nil {
		return config.VoiceConfig{}, err
	}
	v, err := registry.Get(voiceName)
	if err != nil {
		return config.VoiceConfig{}, err
	}
	return v.Config(), nil
}

func traceLogger(w io.Writer) *slog.Logger {
	if !trace {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
