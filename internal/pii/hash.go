package pii

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DigestLength is the length of every non-empty digest returned by this package.
const DigestLength = sha256.Size * 2

// HashText returns the hex-encoded SHA-256 digest of the UTF-8 bytes of s.
// The empty string hashes to the empty string so that absent optional fields
// stay absent.
func HashText(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashUsername lowercases the username before hashing it, so "Alice" and
// "alice" produce the same digest.
func HashUsername(username string) string {
	return HashText(cases.Lower(language.Und).String(username))
}

// HashHashtag returns the digest used to group hashtags. Tags are
// lowercased first, so "#Sun" and "#sun" collapse into one group. This is
// plain lowercasing, not full case folding: "#Straße" stays distinct from
// "#strasse", which keeps digests equal to those of earlier refiners.
func HashHashtag(tag string) string {
	return HashText(cases.Lower(language.Und).String(tag))
}

// Hash hashes an untyped value. It accepts string and []byte holding valid
// UTF-8; anything else returns an error wrapping ErrHashing.
func Hash(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		if !utf8.ValidString(val) {
			return "", fmt.Errorf("%w: invalid UTF-8 string", ErrHashing)
		}
		return HashText(val), nil
	case []byte:
		if !utf8.Valid(val) {
			return "", fmt.Errorf("%w: invalid UTF-8 bytes", ErrHashing)
		}
		return HashText(string(val)), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrHashing, v)
	}
}
