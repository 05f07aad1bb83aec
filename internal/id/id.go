// Package id generates record identifiers for the fixture collections.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet is lowercase base-36, matching the ids in the seed fixture.
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// Length of every generated id.
	Length = 8
)

// Generate creates a random 8-character base-36 id (e.g. "agew2153").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate() (string, error) {
	id, err := gonanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only where failure should crash the program (e.g. fixture setup).
func MustGenerate() string {
	id, err := Generate()
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Valid reports whether s has the shape of a generated id.
func Valid(s string) bool {
	if len(s) == 0 || len(s) > 32 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
