package utils

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Token prefix identifies community API tokens in logs and support requests
const tokenPrefix = "cmt_"

// GenerateAPIToken generates an opaque bearer token: a ULID (sortable by issue
// time) plus 16 bytes of extra entropy, both crockford base32.
func GenerateAPIToken() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate token id: %w", err)
	}

	extra := make([]byte, 16)
	if _, err := rand.Read(extra); err != nil {
		return "", fmt.Errorf("failed to generate token entropy: %w", err)
	}

	var suffix ulid.ULID
	copy(suffix[:], extra)

	return tokenPrefix + id.String() + suffix.String(), nil
}

// IsAPIToken reports whether a bearer credential looks like one of our tokens
func IsAPIToken(token string) bool {
	return len(token) == len(tokenPrefix)+2*ulid.EncodedSize && token[:len(tokenPrefix)] == tokenPrefix
}
