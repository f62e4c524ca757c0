package adapter

import "errors"

var (
	// ErrNotFound is returned when every mirror answered 404.
	ErrNotFound = errors.New("not found on any mirror")
	// ErrNetwork is returned when the mirrors were exhausted for any other
	// reason. It is retryable.
	ErrNetwork = errors.New("network error")
	// ErrNoResume is returned when a mirror answered a range request with the
	// full content. The partial file is left untouched.
	ErrNoResume = errors.New("mirror ignored range request")
	// ErrTooLarge is returned when a mirror sent more bytes than expected.
	ErrTooLarge = errors.New("download exceeds expected size")
	// ErrHashMismatch is returned when the downloaded file does not hash to
	// the expected SHA-256.
	ErrHashMismatch = errors.New("download hash mismatch")
	// ErrNoMirrors is returned for a request without any mirror.
	ErrNoMirrors = errors.New("no mirrors to download from")

	errServerError = errors.New("mirror server error")
	errRedirect    = errors.New("mirror redirected")
)
