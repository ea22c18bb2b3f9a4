// Package random provides seeds for the deterministic PRNGs used elsewhere.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a cryptographically random non-zero seed.
func NewSeed() (uint64, error) {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := binary.LittleEndian.Uint64(b[:]); seed != 0 {
			return seed, nil
		}
	}
}

// SeedOr returns configured when non-zero, otherwise a fresh seed.
func SeedOr(configured uint64) (uint64, error) {
	if configured != 0 {
		return configured, nil
	}
	return NewSeed()
}
