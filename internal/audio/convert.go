package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// converterCommand is the external decode/encode capability. It is probed at
// call time so a missing install surfaces as a typed error, not a spawn fail.
const converterCommand = "ffmpeg"

// ErrConverterUnavailable means ffmpeg is not installed or not on PATH.
var ErrConverterUnavailable = errors.New("audio: ffmpeg not found in PATH")

// Convert decodes input and re-encodes it as a temporary file in the given
// format, downmixed to the given channel count and sample rate. The caller
// owns the returned file and must delete it; Convert never deletes files it
// did not create itself.
func Convert(ctx context.Context, input, format string, sampleRate, channels int) (string, error) {
	if _, err := exec.LookPath(converterCommand); err != nil {
		return "", fmt.Errorf("%w (run the config command to install it)", ErrConverterUnavailable)
	}

	tmp, err := os.CreateTemp("", "liqui-speak-*."+format)
	if err != nil {
		return "", fmt.Errorf("audio: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("audio: closing temp file: %w", err)
	}

	args := []string{
		"-y",
		"-i", input,
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
	}
	if format == "wav" {
		args = append(args, "-c:a", "pcm_s16le")
	}
	args = append(args, tmpPath)

	cmd := exec.CommandContext(ctx, converterCommand, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("audio: converting %s to %s: %v: %s",
			filepath.Base(input), format, err, lastLine(stderr.String()))
	}

	if format == "wav" {
		if err := validateWAV(tmpPath); err != nil {
			os.Remove(tmpPath)
			return "", fmt.Errorf("audio: converter produced unusable output for %s: %w",
				filepath.Base(input), err)
		}
	}

	return tmpPath, nil
}

// lastLine extracts the final non-empty line of ffmpeg's stderr, which is
// where it prints its actual failure reason.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no error output"
}
