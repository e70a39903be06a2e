package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	beepwav "github.com/faiface/beep/wav"
)

// Play decodes a WAV file and plays it on the default output device,
// blocking until playback finishes. Playback is cosmetic; callers run it in
// a goroutine and may ignore the error.
func Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("audio: open %s: %w", path, err)
	}

	streamer, format, err := beepwav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("audio: decode %s for playback: %w", path, err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}
