// Command liqui-speak transcribes audio files with the LFM2-Audio model.
//
// Usage:
//
//	liqui-speak config                    install dependencies and download models
//	liqui-speak transcribe audio.m4a      transcribe an audio file
//	liqui-speak audio.m4a                 shorthand for transcribe
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/liqui-speak/liqui-speak/internal/config"
	"github.com/liqui-speak/liqui-speak/internal/setup"
	"github.com/liqui-speak/liqui-speak/internal/transcribe"
)

const version = "0.1.0"

const usage = `liqui-speak: automated audio transcription with LFM2-Audio

Usage:
  liqui-speak config [--verbose] [--force]
  liqui-speak transcribe <audio-file> [--play-audio] [--clean-text] [--verbose]
  liqui-speak <audio-file>

Commands:
  config       Install dependencies and download models
  transcribe   Transcribe an audio file (M4A, AAC, WAV, MP3, ...)

Examples:
  liqui-speak config
  liqui-speak transcribe audio.m4a
  liqui-speak transcribe audio.wav --verbose
  liqui-speak transcribe audio.mp3 --play-audio
  liqui-speak audio.m4a
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	godotenv.Load()
	initLogger()

	args = normalizeArgs(args)
	if len(args) == 0 {
		fmt.Print(usage)
		return 0
	}

	switch args[0] {
	case "config":
		return runConfig(args[1:])
	case "transcribe":
		return runTranscribe(args[1:])
	case "version", "--version":
		fmt.Printf("liqui-speak %s\n", version)
		return 0
	case "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Print(usage)
		return 1
	}
}

// normalizeArgs treats a bare non-flag first argument as an audio file and
// rewrites the invocation to an explicit transcribe command.
func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	switch args[0] {
	case "config", "transcribe", "version", "--version", "help", "-h", "--help":
		return args
	}
	if strings.HasPrefix(args[0], "-") {
		return args
	}
	return append([]string{"transcribe"}, args...)
}

func runConfig(args []string) int {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	verbose := fs.BoolP("verbose", "v", false, "show detailed setup progress")
	force := fs.Bool("force", false, "force reinstallation of dependencies")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration failed", "err", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	mgr := setup.NewManager(cfg)
	mgr.Force = *force
	if err := mgr.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Error("setup interrupted")
		} else {
			log.Error("setup failed", "err", err)
		}
		return 1
	}

	fmt.Println("Configuration complete. Transcribe audio files with:")
	fmt.Println("  liqui-speak transcribe audio.m4a")
	fmt.Println("  liqui-speak audio.m4a")
	return 0
}

func runTranscribe(args []string) int {
	fs := pflag.NewFlagSet("transcribe", pflag.ContinueOnError)
	playAudio := fs.Bool("play-audio", false, "play audio in background during transcription")
	cleanText := fs.Bool("clean-text", false, "clean transcription with a language model (reserved)")
	verbose := fs.BoolP("verbose", "v", false, "show detailed transcription progress")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: liqui-speak transcribe <audio-file>")
		return 1
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration failed", "err", err)
		return 1
	}

	// Interrupt aborts the in-flight runner subprocess.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	text, err := transcribe.Transcribe(ctx, cfg, fs.Arg(0), transcribe.Options{
		PlayAudio: *playAudio,
		CleanText: *cleanText,
		Verbose:   *verbose,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Error("transcription interrupted")
		} else {
			log.Error("transcription failed", "err", err)
		}
		return 1
	}

	// The transcript is the only thing written to stdout.
	fmt.Println(text)
	return 0
}

// initLogger routes diagnostics to stderr with the level taken from
// LIQUI_SPEAK_LOG_LEVEL.
func initLogger() {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
	log.SetTimeFormat("15:04:05")

	if lvl := os.Getenv("LIQUI_SPEAK_LOG_LEVEL"); lvl != "" {
		if parsed, err := log.ParseLevel(strings.ToLower(lvl)); err == nil {
			log.SetLevel(parsed)
		}
	}
}
