package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns prefix, a colon and the hex SHA-256 of the JSON-encoded
// parts. Sample keys hash the source digest together with the sampling
// options, so two grids of a different dimension or filter never share an
// entry.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the 64-character hex SHA-256 of data. The sampler passes the
// raw bytes of the source image, so a copied or renamed picture reuses its
// sampled color buffer.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
