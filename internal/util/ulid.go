package util

import (
	"regexp"

	"github.com/oklog/ulid/v2"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// NewULID generates a new ULID string.
// ulid.Make draws from a process-wide monotonic entropy source and is safe for concurrent use.
func NewULID() string {
	return ulid.Make().String()
}

// IsValidULID checks if the string is a valid ULID in Crockford's Base32.
func IsValidULID(s string) bool {
	if len(s) != ulid.EncodedSize || !ulidPattern.MatchString(s) {
		return false
	}
	_, err := ulid.ParseStrict(s)
	return err == nil
}
