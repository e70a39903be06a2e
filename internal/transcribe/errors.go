package transcribe

import "errors"

// Error kinds surfaced by the transcription pipeline. None of them are
// retried internally; callers decide whether to retry or give up.
var (
	// ErrUnsupportedPlatform indicates no prebuilt runner exists for this
	// OS/architecture pair.
	ErrUnsupportedPlatform = errors.New("transcribe: no runner binary for this platform")

	// ErrBinaryNotFound indicates the runner binary is absent at its
	// resolved path.
	ErrBinaryNotFound = errors.New("transcribe: runner binary not found")

	// ErrMissingModel indicates a required model weight file is absent.
	ErrMissingModel = errors.New("transcribe: missing model file")

	// ErrTimeout indicates the runner exceeded the configured deadline.
	ErrTimeout = errors.New("transcribe: runner timed out")

	// ErrEmptyTranscript indicates the runner produced output but no line
	// survived diagnostic filtering.
	ErrEmptyTranscript = errors.New("transcribe: no transcript text in runner output")
)
