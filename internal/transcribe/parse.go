package transcribe

import (
	"strings"
	"unicode/utf8"
)

// diagnosticKeywords mark model-loading noise in the runner's stdout. The
// match is case-insensitive substring. This list mirrors the runner's
// current log vocabulary; it is a heuristic, not a grammar, and lives here
// so a runner format change touches only this file.
var diagnosticKeywords = []string{
	"loading", "model", "load_gguf", "loaded",
	"gguf", "encoding", "slice",
}

// timingMarkers mark timing and throughput lines. Matched case-sensitively
// against the trimmed line, as the runner prints them.
var timingMarkers = []string{"ms", "tokens", "speed"}

// ParseOutput extracts transcript text from the runner's raw stdout.
// Invalid byte sequences are replaced rather than rejected. Blank lines,
// diagnostic lines, and timing lines are discarded; the survivors are
// joined with single spaces and whitespace runs collapsed. When every line
// is filtered out the result is "", which callers must treat as a failure
// signal of its own.
func ParseOutput(raw []byte) string {
	var kept []string

	for _, line := range strings.Split(decodeReplace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isDiagnostic(line) || isTiming(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}

func isDiagnostic(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range diagnosticKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isTiming(line string) bool {
	for _, m := range timingMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// decodeReplace converts bytes to a string, substituting the Unicode
// replacement character for invalid sequences.
func decodeReplace(b []byte) string {
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
