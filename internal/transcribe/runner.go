package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/liqui-speak/liqui-speak/internal/config"
	"github.com/liqui-speak/liqui-speak/internal/platform"
)

// systemPrompt is the fixed instruction string the runner expects for
// speech recognition.
const systemPrompt = "Perform ASR."

// Runner invokes the llama-lfm2-audio binary once per audio file. It is the
// only component that knows the binary's command-line contract, so swapping
// the inference path means replacing this type alone.
type Runner struct {
	cfg *config.Config
}

// NewRunner validates that every required model file exists and returns a
// Runner bound to the given configuration.
func NewRunner(cfg *config.Config) (*Runner, error) {
	for _, f := range cfg.RequiredFiles() {
		if _, err := os.Stat(f); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingModel, f)
		}
	}
	return &Runner{cfg: cfg}, nil
}

// Run feeds a WAV file to the runner binary and returns its raw stdout.
// Exactly one subprocess is spawned, blocking until it exits or the
// configured timeout elapses. Timeouts, non-zero exits, and a missing or
// unsupported binary each produce a distinct error.
func (r *Runner) Run(ctx context.Context, audioPath string) ([]byte, error) {
	label, ok := platform.Label()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform.Host())
	}

	bin := r.cfg.BinaryPath(label)
	if _, err := os.Stat(bin); err != nil {
		return nil, fmt.Errorf("%w: %s (run the config command first)", ErrBinaryNotFound, bin)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, bin,
		"-m", r.cfg.ModelPath,
		"--mmproj", r.cfg.MMProjPath,
		"-mv", r.cfg.AudioDecoderPath,
		"-sys", systemPrompt,
		"--audio", audioPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, r.cfg.Timeout())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("transcribe: runner exited with code %d: %s",
				exitErr.ExitCode(), decodeReplace(stderr.Bytes()))
		}
		return nil, fmt.Errorf("transcribe: running %s: %w", bin, err)
	}

	return stdout.Bytes(), nil
}
