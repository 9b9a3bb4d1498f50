package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newEntryID returns "e-" plus 8 lowercase base32 chars (40 random bits).
func newEntryID() (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "e-" + strings.ToLower(idEncoding.EncodeToString(b[:])), nil
}
