// Package observability provides hooks for metrics, tracing, and logging.
//
// Library packages emit events through these hooks without depending on a
// particular backend. The CLI registers logging hooks at startup; tests can
// register recorders. Unregistered hooks are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPuzzleHooks(&myPuzzleHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Sample().OnSampleStart(ctx, path, dim)
//	// ... decode and scale ...
//	observability.Sample().OnSampleComplete(ctx, path, dim, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Puzzle Hooks
// =============================================================================

// PuzzleHooks receives events from a running puzzle.
type PuzzleHooks interface {
	// OnBuild records pyramid construction.
	OnBuild(ctx context.Context, session string, layers, units int, duration time.Duration, err error)

	// OnSplit records a block replaced by its children.
	OnSplit(ctx context.Context, session string, size int)

	// OnReveal records units of the image exposed.
	OnReveal(ctx context.Context, session string, units, percent int)

	// OnComplete records the puzzle being declared solved.
	OnComplete(ctx context.Context, session string, revealed, total int, elapsed time.Duration)
}

// =============================================================================
// Sample Hooks
// =============================================================================

// SampleHooks receives events from image sampling.
type SampleHooks interface {
	OnSampleStart(ctx context.Context, source string, dim int)
	OnSampleComplete(ctx context.Context, source string, dim int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPuzzleHooks is a no-op implementation of PuzzleHooks.
type NoopPuzzleHooks struct{}

func (NoopPuzzleHooks) OnBuild(context.Context, string, int, int, time.Duration, error) {}
func (NoopPuzzleHooks) OnSplit(context.Context, string, int)                           {}
func (NoopPuzzleHooks) OnReveal(context.Context, string, int, int)                     {}
func (NoopPuzzleHooks) OnComplete(context.Context, string, int, int, time.Duration)    {}

// NoopSampleHooks is a no-op implementation of SampleHooks.
type NoopSampleHooks struct{}

func (NoopSampleHooks) OnSampleStart(context.Context, string, int)                          {}
func (NoopSampleHooks) OnSampleComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	puzzleHooks PuzzleHooks = NoopPuzzleHooks{}
	sampleHooks SampleHooks = NoopSampleHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetPuzzleHooks registers custom puzzle hooks.
// This should be called once at application startup before any puzzle is built.
func SetPuzzleHooks(h PuzzleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		puzzleHooks = h
	}
}

// SetSampleHooks registers custom sampling hooks.
func SetSampleHooks(h SampleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sampleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Puzzle returns the registered puzzle hooks.
func Puzzle() PuzzleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return puzzleHooks
}

// Sample returns the registered sampling hooks.
func Sample() SampleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sampleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	puzzleHooks = NoopPuzzleHooks{}
	sampleHooks = NoopSampleHooks{}
	cacheHooks = NoopCacheHooks{}
}
