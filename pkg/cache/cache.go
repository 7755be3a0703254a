// Package cache stores derived byte blobs between runs.
//
// The CLI caches the color buffers produced by image sampling: decoding and
// scaling a large photo is the slowest step of starting a puzzle, and its
// output depends only on the source bytes and the sampling parameters.
//
// Two implementations are provided:
//   - [FileCache]: one JSON file per entry under a directory, with optional TTL
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer], which hashes the inputs so that equal inputs
// always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-blob store keyed by string.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// SampleKeyOpts are the parameters that change a sampled buffer.
type SampleKeyOpts struct {
	Dim    int    `json:"dim"`
	Filter string `json:"filter"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SampleKey returns the key for the buffer sampled from a source whose
	// content hash is sourceHash.
	SampleKey(sourceHash string, opts SampleKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SampleKey generates a key of the form "sample:<hash>".
func (DefaultKeyer) SampleKey(sourceHash string, opts SampleKeyOpts) string {
	return hashKey("sample", sourceHash, opts)
}
