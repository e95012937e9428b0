package domain

import "errors"

// Error taxonomy for the session and message lifecycle. Callers classify
// failures with errors.Is; the concrete cause is wrapped alongside.
var (
	// ErrDecode covers every audio decoding failure: transcoder exit,
	// missing output, unparsable container.
	ErrDecode = errors.New("audio decode failed")

	// ErrTranscription wraps speech-to-text failures.
	ErrTranscription = errors.New("transcription failed")

	// ErrModel wraps language-model invocation failures.
	ErrModel = errors.New("model invocation failed")

	// ErrInvalidInput indicates a pending input that cannot start a
	// cycle: empty text, an empty image, or an unknown kind.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates no stored record exists for an identifier.
	ErrNotFound = errors.New("session not found")

	// ErrCorruptRecord indicates a stored record could not be parsed.
	ErrCorruptRecord = errors.New("corrupt session record")

	// ErrStorage indicates an I/O failure while persisting a transcript.
	ErrStorage = errors.New("session storage failed")

	// ErrStaleSession indicates the previously active identifier no longer
	// exists. The recommended recovery is falling back to NewSession.
	ErrStaleSession = errors.New("stale session reference")
)
