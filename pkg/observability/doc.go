// Package observability turns lookup lifecycle events into Prometheus metrics.
//
// Metrics.Hooks returns domain.LifecycleHooks to pass to hfstol.Open through
// hfstol.WithLifecycleHooks. The HTTP adapter exposes the registry on /metrics.
package observability
