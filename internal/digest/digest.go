// Package digest computes the 128-bit xxh3 fingerprints used to name cached
// downloads and to describe release files in the catalog.
package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Bytes returns the xxh3-128 digest of b as 32 lowercase hex characters.
func Bytes(b []byte) string {
	return format(xxh3.Hash128(b))
}

// String returns the xxh3-128 digest of s as 32 lowercase hex characters.
func String(s string) string {
	return format(xxh3.HashString128(s))
}

// File streams the file at path through xxh3-128.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return format(h.Sum128()), nil
}

// format renders the digest big-endian, high word first.
func format(u xxh3.Uint128) string {
	b := u.Bytes()
	return hex.EncodeToString(b[:])
}
