package core

import (
	"context"
)

// VerdictCache defines the interface for caching analysis verdicts
type VerdictCache interface {
	// Get retrieves a cached verdict by message hash
	Get(ctx context.Context, messageHash string) (*VerdictEntry, error)

	// Set stores a verdict entry
	Set(ctx context.Context, entry *VerdictEntry) error

	// Delete removes a verdict entry
	Delete(ctx context.Context, messageHash string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
