// Package setup performs one-shot host configuration: platform detection,
// OS package installation, conversion-tool verification, and model and
// runner downloads. Steps run in order, any failure aborts the sequence,
// and completed steps are left in place so setup can simply be rerun.
package setup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/liqui-speak/liqui-speak/internal/config"
	"github.com/liqui-speak/liqui-speak/internal/models"
	"github.com/liqui-speak/liqui-speak/internal/platform"
)

// Manager drives the setup sequence.
type Manager struct {
	cfg *config.Config

	// Force reinstalls OS packages even when the tools already exist.
	Force bool
}

// NewManager returns a Manager bound to the given configuration.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Run executes the full setup sequence.
func (m *Manager) Run(ctx context.Context) error {
	label, supported := platform.Label()
	if supported {
		log.Info("detected platform", "platform", label)
	} else {
		log.Warn("no prebuilt runner for this platform; model downloads will proceed without it",
			"host", platform.Host())
	}

	log.Info("installing system packages")
	if err := m.installPackages(ctx); err != nil {
		return err
	}

	log.Info("verifying conversion tooling")
	version, err := converterVersion(ctx)
	if err != nil {
		return err
	}
	log.Info("ffmpeg available", "version", version)

	if _, err := config.EnsureSetupDir(); err != nil {
		return err
	}

	log.Info("downloading model weights", "dir", m.cfg.ModelDir)
	if err := models.DownloadModels(m.cfg.ModelDir); err != nil {
		return err
	}

	if supported {
		log.Info("installing inference runner", "platform", label)
		bin, err := models.DownloadRunner(m.cfg.ModelDir, label)
		if err != nil {
			return err
		}
		log.Info("runner installed", "path", bin)
	}

	log.Info("verifying installation")
	if err := m.verify(label, supported); err != nil {
		return err
	}

	log.Info("setup complete")
	return nil
}

// installPackages installs the audio I/O and media packages through the
// first available package manager, unless the tools are already present.
func (m *Manager) installPackages(ctx context.Context) error {
	if !m.Force && commandExists("ffmpeg") {
		log.Info("system packages already present, skipping install")
		return nil
	}

	in, err := selectInstaller(runtime.GOOS)
	if err != nil {
		return err
	}
	log.Info("using package manager", "command", in.cmd, "packages", strings.Join(in.packages, ", "))
	return in.run(ctx)
}

// verify re-checks every dependency and artifact the transcription path needs.
func (m *Manager) verify(label string, supported bool) error {
	if !commandExists("ffmpeg") {
		return fmt.Errorf("setup: ffmpeg still missing after install")
	}
	if err := models.Verify(m.cfg.ModelDir); err != nil {
		return err
	}
	if !m.cfg.IsConfigured() {
		return fmt.Errorf("setup: configuration check failed after download")
	}
	if supported {
		bin := m.cfg.BinaryPath(label)
		if !fileExists(bin) {
			return fmt.Errorf("setup: runner binary missing at %s", bin)
		}
	}
	return nil
}

// converterVersion runs ffmpeg and extracts its version string.
func converterVersion(ctx context.Context) (string, error) {
	if !commandExists("ffmpeg") {
		return "", fmt.Errorf("setup: ffmpeg not found after package install")
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-version")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("setup: ffmpeg -version failed: %w", err)
	}
	return parseConverterVersion(out.String()), nil
}

// parseConverterVersion pulls the version token out of ffmpeg's banner line
// ("ffmpeg version 6.1.1 Copyright ...").
func parseConverterVersion(banner string) string {
	line, _, _ := strings.Cut(banner, "\n")
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "version" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return "unknown"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
