// Package config resolves transcription settings from defaults, an optional
// YAML file, and LIQUI_SPEAK_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/liqui-speak/liqui-speak/internal/platform"
)

// Model weight files published on the hub.
const (
	ModelFile        = "LFM2-Audio-1.5B-Q8_0.gguf"
	MMProjFile       = "mmproj-audioencoder-LFM2-Audio-1.5B-Q8_0.gguf"
	AudioDecoderFile = "audiodecoder-LFM2-Audio-1.5B-Q8_0.gguf"
)

// EnvPrefix is prepended to the upper-cased key name of every setting to
// form its environment variable override.
const EnvPrefix = "LIQUI_SPEAK_"

const defaultTimeoutSec = 60

// Config holds all transcription settings. A fresh value is produced per
// invocation; nothing in this package is mutated after Load returns.
type Config struct {
	ModelDir         string  `yaml:"model_dir"`
	ModelPath        string  `yaml:"model_path"`
	MMProjPath       string  `yaml:"mmproj_path"`
	AudioDecoderPath string  `yaml:"audiodecoder_path"`
	BinaryDir        string  `yaml:"binary_path"`
	SampleRate       int     `yaml:"sample_rate"`
	Channels         int     `yaml:"channels"`
	ChunkDuration    float64 `yaml:"chunk_duration"`
	Overlap          float64 `yaml:"overlap"`
	TimeoutSec       int     `yaml:"transcription_timeout"`
}

// SetupDir returns the fixed application directory under the user's home.
func SetupDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".liqui-speak")
}

// EnsureSetupDir creates the setup directory if needed and returns its path.
func EnsureSetupDir() (string, error) {
	dir := SetupDir()
	if dir == "" {
		return "", fmt.Errorf("config: cannot determine home directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("config: creating setup dir: %w", err)
	}
	return dir, nil
}

// DefaultConfigPath returns the optional YAML config file path.
func DefaultConfigPath() string {
	return filepath.Join(SetupDir(), "config.yaml")
}

// Default returns a Config pointing at the standard model layout.
func Default() *Config {
	modelsDir := filepath.Join(SetupDir(), "models")

	return &Config{
		ModelDir:         modelsDir,
		ModelPath:        filepath.Join(modelsDir, ModelFile),
		MMProjPath:       filepath.Join(modelsDir, MMProjFile),
		AudioDecoderPath: filepath.Join(modelsDir, AudioDecoderFile),
		BinaryDir:        filepath.Join(modelsDir, "runners"),
		SampleRate:       48000,
		Channels:         1,
		ChunkDuration:    2.0,
		Overlap:          0.5,
		TimeoutSec:       defaultTimeoutSec,
	}
}

// Load resolves the effective configuration: defaults, then the YAML file if
// one exists, then environment variable overrides.
func Load() (*Config, error) {
	cfg := Default()

	path := DefaultConfigPath()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides each setting from its LIQUI_SPEAK_<KEY> variable,
// coercing numeric values and keeping the prior value on a bad parse.
func (c *Config) applyEnv() {
	envString("MODEL_DIR", &c.ModelDir)
	envString("MODEL_PATH", &c.ModelPath)
	envString("MMPROJ_PATH", &c.MMProjPath)
	envString("AUDIODECODER_PATH", &c.AudioDecoderPath)
	envString("BINARY_PATH", &c.BinaryDir)
	envInt("SAMPLE_RATE", &c.SampleRate)
	envInt("CHANNELS", &c.Channels)
	envFloat("CHUNK_DURATION", &c.ChunkDuration)
	envFloat("OVERLAP", &c.Overlap)
	envInt("TRANSCRIPTION_TIMEOUT", &c.TimeoutSec)
}

// Timeout returns the subprocess deadline for one inference call.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// RequiredFiles lists the model weights that must exist before inference.
func (c *Config) RequiredFiles() []string {
	return []string{c.ModelPath, c.MMProjPath, c.AudioDecoderPath}
}

// IsConfigured reports whether every required model file is present.
// It never returns an error; a missing file is simply false.
func (c *Config) IsConfigured() bool {
	for _, f := range c.RequiredFiles() {
		if _, err := os.Stat(f); err != nil {
			return false
		}
	}
	return true
}

// BinaryPath returns the inference runner path for a platform label.
func (c *Config) BinaryPath(label string) string {
	return filepath.Join(c.BinaryDir, label, "bin", platform.BinaryName)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
		return
	}
	// Integer keys also accept float syntax, truncating.
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = int(f)
	}
}

func envFloat(key string, dst *float64) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = f
	}
}
