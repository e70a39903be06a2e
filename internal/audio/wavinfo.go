package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// Duration returns the play time of a WAV file.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("audio: %s is not a valid WAV file", path)
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("audio: reading duration of %s: %w", path, err)
	}
	return d, nil
}

// validateWAV rejects empty or truncated converter output.
func validateWAV(path string) error {
	d, err := Duration(path)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("audio: converted file contains no samples")
	}
	return nil
}
