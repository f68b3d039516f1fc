package utils

import "github.com/google/uuid"

// UUIDGenerator issues identifiers for challenge nonces and client-side
// request ids. Version 7 UUIDs sort by creation time.
type UUIDGenerator struct {
	prefix string
}

// NewUUIDGenerator returns a generator whose ids start with prefix. An empty
// prefix yields bare UUIDs.
func NewUUIDGenerator(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns a new id. It falls back to a random v4 UUID if the v7
// clock source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return g.prefix + uuid.NewString()
	}

	return g.prefix + v7.String()
}
