package cache

// ScopedKeyer wraps a Keyer with a prefix so that entries written by
// incompatible versions of the sampler never collide.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v2:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SampleKey generates a prefixed key for sampled buffers.
func (k *ScopedKeyer) SampleKey(sourceHash string, opts SampleKeyOpts) string {
	return k.prefix + k.inner.SampleKey(sourceHash, opts)
}
