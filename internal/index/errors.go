package index

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedIndex is matched by every *MalformedIndexError.
	ErrMalformedIndex = errors.New("malformed index")
	// ErrStaleIndex is matched by every *StaleIndexError.
	ErrStaleIndex = errors.New("stale index")
)

// MalformedIndexError reports a structural violation in an index document.
// Field names the offending JSON path.
type MalformedIndexError struct {
	Field  string
	Reason string
}

func (e *MalformedIndexError) Error() string {
	return fmt.Sprintf("malformed index: field %q: %s", e.Field, e.Reason)
}

func (e *MalformedIndexError) Is(target error) bool {
	return target == ErrMalformedIndex
}

func malformed(field, format string, args ...any) error {
	return &MalformedIndexError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StaleIndexError is returned when a downloaded index is not newer than the
// stored one. SameTimestamp distinguishes a republished index from an older one.
type StaleIndexError struct {
	SameTimestamp bool
	Timestamp     int64
	LastTimestamp int64
}

func (e *StaleIndexError) Error() string {
	if e.SameTimestamp {
		return fmt.Sprintf("stale index: timestamp %d already applied", e.Timestamp)
	}
	return fmt.Sprintf("stale index: timestamp %d is older than %d", e.Timestamp, e.LastTimestamp)
}

func (e *StaleIndexError) Is(target error) bool {
	return target == ErrStaleIndex
}

// CheckTimestamp rejects an index whose timestamp is not strictly newer than
// lastTimestamp.
func CheckTimestamp(timestamp, lastTimestamp int64) error {
	if lastTimestamp >= timestamp {
		return &StaleIndexError{
			SameTimestamp: lastTimestamp == timestamp,
			Timestamp:     timestamp,
			LastTimestamp: lastTimestamp,
		}
	}
	return nil
}
