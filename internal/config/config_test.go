package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", cfg.SampleRate)
	}
	if cfg.Channels != 1 {
		t.Errorf("Channels = %d, want 1", cfg.Channels)
	}
	if cfg.ChunkDuration != 2.0 {
		t.Errorf("ChunkDuration = %v, want 2.0", cfg.ChunkDuration)
	}
	if cfg.Overlap != 0.5 {
		t.Errorf("Overlap = %v, want 0.5", cfg.Overlap)
	}
	if cfg.TimeoutSec != 60 {
		t.Errorf("TimeoutSec = %d, want 60", cfg.TimeoutSec)
	}
	if !strings.HasSuffix(cfg.ModelPath, ModelFile) {
		t.Errorf("ModelPath = %q, want suffix %q", cfg.ModelPath, ModelFile)
	}
	if !strings.HasSuffix(cfg.BinaryDir, filepath.Join("models", "runners")) {
		t.Errorf("BinaryDir = %q, want models/runners suffix", cfg.BinaryDir)
	}
}

// isolateHome points the resolver at an empty home directory so a real
// config.yaml on the host cannot leak into the test.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
}

func TestEnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("LIQUI_SPEAK_MODEL_PATH", "/tmp/custom-model.gguf")
	t.Setenv("LIQUI_SPEAK_SAMPLE_RATE", "16000")
	t.Setenv("LIQUI_SPEAK_CHUNK_DURATION", "3.5")
	t.Setenv("LIQUI_SPEAK_TRANSCRIPTION_TIMEOUT", "120")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ModelPath != "/tmp/custom-model.gguf" {
		t.Errorf("ModelPath = %q, want /tmp/custom-model.gguf", cfg.ModelPath)
	}
	if cfg.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.SampleRate)
	}
	if cfg.ChunkDuration != 3.5 {
		t.Errorf("ChunkDuration = %v, want 3.5", cfg.ChunkDuration)
	}
	if cfg.TimeoutSec != 120 {
		t.Errorf("TimeoutSec = %d, want 120", cfg.TimeoutSec)
	}
}

func TestEnvIntAcceptsFloatSyntax(t *testing.T) {
	isolateHome(t)
	t.Setenv("LIQUI_SPEAK_SAMPLE_RATE", "44100.0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
}

func TestEnvBadValueKeepsDefault(t *testing.T) {
	isolateHome(t)
	t.Setenv("LIQUI_SPEAK_SAMPLE_RATE", "not-a-number")
	t.Setenv("LIQUI_SPEAK_OVERLAP", "also-not")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want default 48000", cfg.SampleRate)
	}
	if cfg.Overlap != 0.5 {
		t.Errorf("Overlap = %v, want default 0.5", cfg.Overlap)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	isolateHome(t)

	if err := os.MkdirAll(SetupDir(), 0755); err != nil {
		t.Fatal(err)
	}
	yamlContent := "model_path: /srv/models/custom.gguf\nsample_rate: 24000\n"
	if err := os.WriteFile(DefaultConfigPath(), []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ModelPath != "/srv/models/custom.gguf" {
		t.Errorf("ModelPath = %q, want /srv/models/custom.gguf", cfg.ModelPath)
	}
	if cfg.SampleRate != 24000 {
		t.Errorf("SampleRate = %d, want 24000", cfg.SampleRate)
	}
	// Unset keys keep their defaults.
	if cfg.Channels != 1 {
		t.Errorf("Channels = %d, want default 1", cfg.Channels)
	}
}

func TestEnvBeatsYAML(t *testing.T) {
	isolateHome(t)

	if err := os.MkdirAll(SetupDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(DefaultConfigPath(), []byte("sample_rate: 24000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIQUI_SPEAK_SAMPLE_RATE", "8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want env override 8000", cfg.SampleRate)
	}
}

func TestLoadBadYAML(t *testing.T) {
	isolateHome(t)

	if err := os.MkdirAll(SetupDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(DefaultConfigPath(), []byte("sample_rate: [oops\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded on malformed YAML")
	}
}

func TestIsConfigured(t *testing.T) {
	tmpDir := t.TempDir()

	model := filepath.Join(tmpDir, ModelFile)
	mmproj := filepath.Join(tmpDir, MMProjFile)
	decoder := filepath.Join(tmpDir, AudioDecoderFile)

	cfg := Default()
	cfg.ModelPath = model
	cfg.MMProjPath = mmproj
	cfg.AudioDecoderPath = decoder

	if cfg.IsConfigured() {
		t.Error("IsConfigured() = true with no model files present")
	}

	for _, f := range []string{model, mmproj} {
		if err := os.WriteFile(f, []byte("gguf"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if cfg.IsConfigured() {
		t.Error("IsConfigured() = true with one model file missing")
	}

	if err := os.WriteFile(decoder, []byte("gguf"), 0644); err != nil {
		t.Fatal(err)
	}
	if !cfg.IsConfigured() {
		t.Error("IsConfigured() = false with all model files present")
	}
}

func TestBinaryPath(t *testing.T) {
	cfg := Default()
	cfg.BinaryDir = "/opt/runners"

	got := cfg.BinaryPath("macos-arm64")
	want := filepath.Join("/opt/runners", "macos-arm64", "bin", "llama-lfm2-audio")
	if got != want {
		t.Errorf("BinaryPath() = %q, want %q", got, want)
	}
}
