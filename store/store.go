// Package store defines the backing key-value/sorted-set store contract the
// graph is built on, and provides the Redis implementation. Keys are opaque
// strings here; all namespacing belongs to the callers.
package store

import (
	"context"
	"errors"
)

// Common errors returned by store operations.
var (
	// ErrUnavailable is returned when the backing store cannot be reached.
	// It is fatal and never retried by this library.
	ErrUnavailable = errors.New("store: unavailable")

	// ErrCommand is returned when a single store command fails. Batch
	// callers treat one item's failure as partial and continue.
	ErrCommand = errors.New("store: command failed")
)

// Z is a sorted-set member with its score.
type Z struct {
	Member string
	Score  float64
}

// ReadOp selects the command of one MultiRead entry.
type ReadOp int

const (
	// OpGet reads a string counter; a non-integer value yields zero.
	OpGet ReadOp = iota

	// OpZCard reads a sorted set's cardinality.
	OpZCard

	// OpZScore reads one member's score in a sorted set.
	OpZScore
)

// ReadCmd is one entry of a MultiRead. Member is used by OpZScore only.
type ReadCmd struct {
	Op     ReadOp
	Key    string
	Member string
}

// ReadResult is the outcome of one MultiRead entry. Found is false when the
// key or member does not exist; Value is zero in that case.
type ReadResult struct {
	Value float64
	Found bool
}

// WriteBatch queues increment commands for a single batched round trip.
// Queued commands are not executed until the Batch call returns; only
// per-key atomicity is guaranteed, never cross-key ordering.
type WriteBatch interface {
	// IncrBy queues an atomic integer increment.
	IncrBy(key string, delta int64)

	// ZIncrBy queues an atomic sorted-set member increment.
	ZIncrBy(key string, delta float64, member string)
}

// Store is the backing-store contract consumed by the graph components.
//
// All operations take a context for cancellation; the store itself defines
// no retry policy. Missing keys are reported through found flags or empty
// values, never as errors.
type Store interface {
	// Get reads a string value. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes a string value, overwriting any previous one.
	Set(ctx context.Context, key, value string) error

	// MGet reads several string values in one round trip. Absent keys
	// yield empty strings at their positions.
	MGet(ctx context.Context, keys ...string) ([]string, error)

	// IncrBy atomically increments an integer value, creating it at zero.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	// ZIncrBy atomically increments a sorted-set member's score, creating
	// set and member as needed.
	ZIncrBy(ctx context.Context, key string, delta float64, member string) (float64, error)

	// ZAdd writes a sorted-set member's score, overwriting in place.
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZCard returns a sorted set's cardinality; zero when absent.
	ZCard(ctx context.Context, key string) (int64, error)

	// ZScore reads one member's score. found is false when absent.
	ZScore(ctx context.Context, key, member string) (score float64, found bool, err error)

	// ZRangeWithScores returns members ordered by ascending score.
	// Indexes follow sorted-set range semantics; 0, -1 is the full set.
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]Z, error)

	// ZRevRangeWithScores returns members ordered by descending score.
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]Z, error)

	// Keys enumerates keys matching a wildcard pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// MultiRead executes several read commands as one consistent atomic
	// unit: the returned values are mutually consistent at one instant.
	MultiRead(ctx context.Context, cmds []ReadCmd) ([]ReadResult, error)

	// Batch executes the commands queued by fn in one pipelined round
	// trip. The batch is synchronous: Batch returns after every queued
	// command has been applied or the first failure is known.
	Batch(ctx context.Context, fn func(b WriteBatch)) error

	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error

	// Close releases the store connection.
	Close() error
}
