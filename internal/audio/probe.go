// Package audio handles input normalization for the inference runner:
// format probing from magic bytes, ffmpeg conversion to mono WAV, and
// optional background playback.
package audio

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MIME types the runner accepts directly.
var supportedMIMEs = map[string]bool{
	"audio/wav":    true,
	"audio/x-wav":  true,
	"audio/wave":   true,
	"audio/mpeg":   true,
	"audio/mp3":    true,
	"audio/flac":   true,
	"audio/x-flac": true,
	"audio/ogg":    true,
	"audio/vorbis": true,
	"audio/aiff":   true,
	"audio/x-aiff": true,
	"audio/basic":  true,
	"audio/x-au":   true,
}

// Apple container/codec types the runner cannot read. These always force
// conversion, even when sniffing is ambiguous about the exact subtype.
var deniedMIMEs = map[string]bool{
	"audio/mp4":   true,
	"audio/x-m4a": true,
	"audio/aac":   true,
	"video/mp4":   true,
}

var supportedExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".aiff": true,
	".au":   true,
}

var deniedExts = map[string]bool{
	".m4a": true,
	".aac": true,
	".mp4": true,
}

var mimeFormats = map[string]string{
	"audio/wav":    "wav",
	"audio/x-wav":  "wav",
	"audio/wave":   "wav",
	"audio/mpeg":   "mp3",
	"audio/mp3":    "mp3",
	"audio/mp4":    "m4a",
	"audio/x-m4a":  "m4a",
	"video/mp4":    "m4a",
	"audio/aac":    "aac",
	"audio/flac":   "flac",
	"audio/x-flac": "flac",
	"audio/ogg":    "ogg",
	"audio/vorbis": "ogg",
	"audio/aiff":   "aiff",
	"audio/x-aiff": "aiff",
	"audio/basic":  "au",
	"audio/x-au":   "au",
}

// Probe reports whether a file can be fed to the runner as-is, plus a
// best-guess format label. Content sniffing runs first; the file extension
// is the fallback when sniffing fails. Probe never returns an error:
// undetectable input is simply (false, "unknown") and the caller converts.
func Probe(path string) (usable bool, format string) {
	ext := strings.ToLower(filepath.Ext(path))

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		if deniedExts[ext] {
			return false, extFormat(ext)
		}
		return supportedExts[ext], extFormat(ext)
	}

	mime := mt.String()
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}

	format = mimeFormats[mime]
	if format == "" {
		format = extFormat(ext)
	}

	if deniedMIMEs[mime] || deniedExts[ext] {
		return false, format
	}
	return supportedMIMEs[mime], format
}

func extFormat(ext string) string {
	if ext == "" {
		return "unknown"
	}
	return strings.TrimPrefix(ext, ".")
}
