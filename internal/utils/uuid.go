// Package utils provides general-purpose helper utilities
// used across different parts of the application.
package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered identifiers for provisioning runs.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7, falling back to a random UUIDv4 when the clock
// source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
