package audio

import (
	"os"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes one second of silence as a PCM WAV file.
func writeTestWAV(t *testing.T, path string, sampleRate, channels int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, sampleRate*channels),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing test WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing test WAV: %v", err)
	}
}

func writeBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestProbeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.wav")
	writeTestWAV(t, path, 16000, 1)

	usable, format := Probe(path)
	if !usable {
		t.Error("Probe() usable = false for valid WAV")
	}
	if format != "wav" {
		t.Errorf("Probe() format = %q, want %q", format, "wav")
	}
}

func TestProbeFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.flac")
	writeBytes(t, path, append([]byte("fLaC"), make([]byte, 64)...))

	usable, format := Probe(path)
	if !usable {
		t.Error("Probe() usable = false for FLAC magic bytes")
	}
	if format != "flac" {
		t.Errorf("Probe() format = %q, want %q", format, "flac")
	}
}

func TestProbeM4AContainer(t *testing.T) {
	// ISO base media container with an M4A brand.
	data := make([]byte, 32)
	copy(data[4:], []byte("ftypM4A "))
	path := filepath.Join(t.TempDir(), "voice.m4a")
	writeBytes(t, path, data)

	usable, format := Probe(path)
	if usable {
		t.Error("Probe() usable = true for M4A container")
	}
	if format != "m4a" {
		t.Errorf("Probe() format = %q, want %q", format, "m4a")
	}
}

func TestProbeDeniedExtensionWinsOverSniff(t *testing.T) {
	// WAV content behind a denylisted extension must still force conversion.
	path := filepath.Join(t.TempDir(), "voice.m4a")
	writeTestWAV(t, path, 16000, 1)

	if usable, _ := Probe(path); usable {
		t.Error("Probe() usable = true for .m4a path despite denylist")
	}
}

func TestProbeUnknownContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	writeBytes(t, path, []byte("just some text\n"))

	usable, _ := Probe(path)
	if usable {
		t.Error("Probe() usable = true for plain text")
	}
}

func TestProbeExtensionFallback(t *testing.T) {
	// Sniffing fails on a nonexistent file; the extension decides.
	dir := t.TempDir()

	tests := []struct {
		name   string
		usable bool
		format string
	}{
		{"missing.mp3", true, "mp3"},
		{"missing.m4a", false, "m4a"},
		{"missing", false, "unknown"},
	}

	for _, tt := range tests {
		usable, format := Probe(filepath.Join(dir, tt.name))
		if usable != tt.usable || format != tt.format {
			t.Errorf("Probe(%q) = %v, %q, want %v, %q",
				tt.name, usable, format, tt.usable, tt.format)
		}
	}
}
