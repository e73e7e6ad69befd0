package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLoad   EventType = "load"
	EventLookup EventType = "lookup"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// Analyzer is the transducer name (file base name unless overridden).
	Analyzer string `json:"analyzer"`
}

// LoadEvent is emitted once per Open attempt.
type LoadEvent struct {
	EventBase
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LookupEvent is emitted once per lookup call.
type LookupEvent struct {
	EventBase
	Input    string        `json:"input"`
	Analyses int           `json:"analyses"`
	Duration time.Duration `json:"duration"`
	CacheHit bool          `json:"cache_hit,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the calling goroutine and must be safe for
// concurrent use when the transducer is shared.
type LifecycleHooks struct {
	OnLoad   func(context.Context, *LoadEvent)
	OnLookup func(context.Context, *LookupEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLoad:   chain(h.OnLoad, other.OnLoad),
		OnLookup: chain(h.OnLookup, other.OnLookup),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
