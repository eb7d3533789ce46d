// Package observability provides hooks for instrumenting topcat builds.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about graph construction and sorting.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define a hook interface for build events
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// Hooks are registered by main, not by libraries, so the core packages never
// import a logging or metrics backend directly.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnFileSkipped(ctx, path, reason)
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildStats summarizes a finished graph build.
type BuildStats struct {
	Files   int // Candidate files discovered
	Nodes   int // Files that declared a name
	Skipped int // Files ignored for lack of a name
	Edges   int // Same-layer dependency edges
	Layers  int // Configured layers
}

// BuildHooks receives events from graph construction and sorting.
type BuildHooks interface {
	// OnFileSkipped records a candidate file that was ignored, e.g. because
	// its header declares no name.
	OnFileSkipped(ctx context.Context, path, reason string)

	// OnBuildComplete records the end of a build, successful or not.
	OnBuildComplete(ctx context.Context, stats BuildStats, duration time.Duration, err error)

	// OnSortComplete records the end of one ordering pass.
	OnSortComplete(ctx context.Context, files int, duration time.Duration, err error)
}

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnFileSkipped(context.Context, string, string)                     {}
func (NoopBuildHooks) OnBuildComplete(context.Context, BuildStats, time.Duration, error) {}
func (NoopBuildHooks) OnSortComplete(context.Context, int, time.Duration, error)         {}

var (
	buildHooks BuildHooks = NoopBuildHooks{}
	hooksMu    sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any build.
// A nil h is ignored.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Reset restores the hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
}
