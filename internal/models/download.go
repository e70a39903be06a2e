// Package models downloads the LFM2-Audio weight files and the
// platform-specific runner archive from the Hugging Face hub.
package models

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/liqui-speak/liqui-speak/internal/platform"
)

const (
	hubRepo = "LiquidAI/LFM2-Audio-1.5B-GGUF"
	hubURL  = "https://huggingface.co/%s/resolve/main/%s"
)

// WeightFiles are the model files every install needs.
var WeightFiles = []string{
	"LFM2-Audio-1.5B-Q8_0.gguf",
	"mmproj-audioencoder-LFM2-Audio-1.5B-Q8_0.gguf",
	"audiodecoder-LFM2-Audio-1.5B-Q8_0.gguf",
}

// RunnerArchive returns the hub archive name for a platform label.
func RunnerArchive(label string) string {
	return fmt.Sprintf("lfm2-audio-%s.zip", label)
}

// DownloadModels fetches every missing weight file into dir. Files already
// on disk are skipped, so a failed setup can simply be rerun.
func DownloadModels(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("models: creating %s: %w", dir, err)
	}

	for _, name := range WeightFiles {
		dest := filepath.Join(dir, name)
		if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
			fmt.Printf("  %s already downloaded (%.0f MB)\n", name, float64(info.Size())/(1024*1024))
			continue
		}

		url := fmt.Sprintf(hubURL, hubRepo, name)
		if err := downloadFile(url, dest, name); err != nil {
			return fmt.Errorf("models: downloading %s: %w", name, err)
		}
	}
	return nil
}

// DownloadRunner fetches and installs the runner binary for a platform
// label under dir/runners/<label>/bin. It returns the installed binary path.
func DownloadRunner(dir, label string) (string, error) {
	runnersDir := filepath.Join(dir, "runners", label)
	binPath := filepath.Join(runnersDir, "bin", platform.BinaryName)

	if _, err := os.Stat(binPath); err == nil {
		fmt.Printf("  runner already installed for %s\n", label)
		return binPath, nil
	}

	if err := os.MkdirAll(runnersDir, 0755); err != nil {
		return "", fmt.Errorf("models: creating %s: %w", runnersDir, err)
	}

	archive := RunnerArchive(label)
	zipPath := filepath.Join(runnersDir, archive)
	url := fmt.Sprintf(hubURL, hubRepo, "runners/"+label+"/"+archive)

	if err := downloadFile(url, zipPath, archive); err != nil {
		return "", fmt.Errorf("models: downloading runner: %w", err)
	}

	if err := extractZip(zipPath, runnersDir); err != nil {
		return "", fmt.Errorf("models: extracting %s: %w", archive, err)
	}

	installed, err := installRunner(runnersDir)
	if err != nil {
		return "", err
	}

	os.Remove(zipPath)
	return installed, nil
}

// Verify reports which weight files are missing from dir, if any.
func Verify(dir string) error {
	var missing []string
	for _, name := range WeightFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("models: missing weight files: %s", strings.Join(missing, ", "))
	}
	return nil
}

// installRunner locates the extracted binary, copies it and its shared
// libraries into bin/, and marks the binary executable.
func installRunner(runnersDir string) (string, error) {
	var srcDir string
	err := filepath.WalkDir(runnersDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == platform.BinaryName &&
			filepath.Base(filepath.Dir(path)) != "bin" {
			srcDir = filepath.Dir(path)
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("models: locating runner binary: %w", err)
	}
	if srcDir == "" {
		return "", fmt.Errorf("models: runner binary not found in extracted archive under %s", runnersDir)
	}

	binDir := filepath.Join(runnersDir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return "", fmt.Errorf("models: creating %s: %w", binDir, err)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return "", fmt.Errorf("models: reading %s: %w", srcDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(binDir, entry.Name())
		if err := copyFile(src, dst); err != nil {
			return "", fmt.Errorf("models: copying %s: %w", entry.Name(), err)
		}
	}

	binPath := filepath.Join(binDir, platform.BinaryName)
	if err := os.Chmod(binPath, 0755); err != nil {
		return "", fmt.Errorf("models: marking runner executable: %w", err)
	}
	return binPath, nil
}

// downloadFile fetches url into dest, writing to a temp file first and
// renaming on success so a partial download never looks complete.
func downloadFile(url, dest, label string) error {
	fmt.Printf("  downloading %s\n", label)

	resp, err := http.Get(url) //nolint:gosec // hub URLs are built from constants
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpPath := dest + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	pr := &progressWriter{writer: f, total: resp.ContentLength, label: label}
	written, err := io.Copy(pr, resp.Body)
	f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	fmt.Printf("\n  downloaded %.1f MB\n", float64(written)/(1024*1024))

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// extractZip unpacks an archive into dir, rejecting entries that would
// escape it.
func extractZip(zipPath, dir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		dest := filepath.Join(dir, f.Name)
		if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes extraction dir: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	mode := f.Mode()
	if mode.Perm() == 0 {
		// Archives built without unix attributes carry no permission bits.
		mode = 0644
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// progressWriter wraps an io.Writer and prints download progress.
type progressWriter struct {
	writer  io.Writer
	total   int64
	written int64
	label   string
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	pw.written += int64(n)
	if pw.total > 0 {
		pct := float64(pw.written) / float64(pw.total) * 100
		fmt.Printf("\r  %s: %.1f MB / %.1f MB (%.0f%%)",
			pw.label,
			float64(pw.written)/(1024*1024),
			float64(pw.total)/(1024*1024),
			pct)
	} else {
		fmt.Printf("\r  %s: %.1f MB downloaded",
			pw.label,
			float64(pw.written)/(1024*1024))
	}
	return n, err
}
