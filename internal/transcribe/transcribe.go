// Package transcribe turns an audio file into text by normalizing it to
// WAV, invoking the external inference runner, and filtering transcript
// lines out of the runner's stdout.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/liqui-speak/liqui-speak/internal/audio"
	"github.com/liqui-speak/liqui-speak/internal/config"
)

// Options control per-call behavior of Transcribe.
type Options struct {
	// PlayAudio plays the normalized audio in the background while the
	// runner works. Playback is not synchronized with transcription.
	PlayAudio bool

	// CleanText is accepted for CLI compatibility and currently ignored.
	CleanText bool

	// Verbose enables progress detail.
	Verbose bool
}

// Transcribe converts one audio file to text. Inputs the runner cannot read
// are first converted to mono WAV through ffmpeg; the converted temp file is
// removed on every exit path. The result is either a non-empty normalized
// transcript or an error; partially assembled text is never returned.
func Transcribe(ctx context.Context, cfg *config.Config, audioPath string, opts Options) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("transcribe: audio file not found: %w", err)
	}

	wavPath := audioPath
	usable, format := audio.Probe(audioPath)
	if !usable {
		log.Debug("converting input", "file", filepath.Base(audioPath), "format", format)
		tmp, err := audio.Convert(ctx, audioPath, "wav", cfg.SampleRate, cfg.Channels)
		if err != nil {
			return "", err
		}
		defer os.Remove(tmp)
		wavPath = tmp
	} else {
		log.Debug("input usable as-is", "format", format)
	}

	if opts.Verbose {
		if d, err := audio.Duration(wavPath); err == nil {
			log.Info("transcribing", "file", filepath.Base(audioPath), "duration", d)
		}
	}

	if opts.PlayAudio {
		go func() {
			if err := audio.Play(wavPath); err != nil {
				log.Debug("playback failed", "err", err)
			}
		}()
	}

	runner, err := NewRunner(cfg)
	if err != nil {
		return "", err
	}

	raw, err := runner.Run(ctx, wavPath)
	if err != nil {
		return "", err
	}

	text := ParseOutput(raw)
	if text == "" {
		return "", ErrEmptyTranscript
	}

	log.Debug("transcription complete", "chars", len(text))
	return text, nil
}

// TranscribeChunked exists for the chunk_duration and overlap settings.
// The runner decodes whole files only, so chunked mode currently delegates
// to Transcribe.
// TODO: split the input by chunk_duration/overlap once the runner gains
// stateful decoding.
func TranscribeChunked(ctx context.Context, cfg *config.Config, audioPath string, opts Options) (string, error) {
	return Transcribe(ctx, cfg, audioPath, opts)
}
