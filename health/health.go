// Package health provides a connectivity check for the backing store.
// It offers a standardized status shape so applications embedding the
// library can report readiness consistently.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/lexgraph/lexgraph/store"
)

// Status is the outcome of a health check.
type Status struct {
	// Healthy reports whether the check passed.
	Healthy bool

	// Message describes the outcome, including the failure cause.
	Message string

	// CheckedAt is when the check ran.
	CheckedAt time.Time

	// Latency is how long the check took.
	Latency time.Duration
}

// IsUnhealthy reports whether the check failed.
func (s Status) IsUnhealthy() bool {
	return !s.Healthy
}

// CheckStore pings the backing store and reports the result. A failed ping
// means the graph is unreachable; callers should surface this immediately
// rather than retry.
func CheckStore(ctx context.Context, s store.Store) Status {
	start := time.Now()
	err := s.Ping(ctx)
	status := Status{
		CheckedAt: start,
		Latency:   time.Since(start),
	}
	if err != nil {
		status.Message = fmt.Sprintf("store unreachable: %v", err)
		return status
	}
	status.Healthy = true
	status.Message = "store reachable"
	return status
}
