// Package search resolves query terms to graph node keys and ranks
// documents by their summed TF-IDF weights.
package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/lexgraph/lexgraph/keys"
	"github.com/lexgraph/lexgraph/store"
)

// DefaultLimit bounds per-term weight fetches when the caller sets none.
const DefaultLimit = 10

// Options tunes a single search call.
type Options struct {
	// Limit caps how many weighted documents are fetched per resolved
	// term. Zero uses the engine's default.
	Limit int
}

// Engine ranks documents against query terms.
type Engine struct {
	store        store.Store
	codec        keys.Codec
	logger       *slog.Logger
	defaultLimit int
}

// New returns a search Engine. A defaultLimit of zero falls back to
// DefaultLimit; a nil logger falls back to slog.Default().
func New(s store.Store, codec keys.Codec, defaultLimit int, logger *slog.Logger) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, codec: codec, logger: logger, defaultLimit: defaultLimit}
}

// Search resolves the query terms and returns document ids ranked by the
// sum of their per-term weights, along with the score of each id. A
// document matching several terms accumulates all of their scores.
//
// Unqualified terms (no separator) expand by wildcard to every node key
// ending in the term, with bookkeeping keys dropped; terms already
// containing a separator pass through as concrete node keys. A query
// resolving to no keys returns empty results, not an error. Equal summed
// scores order lexicographically ascending by document id, so rankings
// are stable across runs.
func (e *Engine) Search(ctx context.Context, terms []string, opts Options) ([]string, map[string]float64, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = e.defaultLimit
	}

	resolved := e.resolve(ctx, terms)
	scores := make(map[string]float64)
	for _, key := range resolved {
		entries, err := e.store.ZRevRangeWithScores(ctx, e.codec.WeightKey(key), 0, int64(limit)-1)
		if err != nil {
			e.logger.Warn("failed to read term weights", "term", key, "error", err)
			continue
		}
		for _, entry := range entries {
			scores[entry.Member] += entry.Score
		}
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids, scores, nil
}

// resolve maps each query term to the node keys it names. Expansion
// failures degrade per term rather than aborting the query.
func (e *Engine) resolve(ctx context.Context, terms []string) []string {
	resolved := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if e.codec.IsQualified(term) {
			resolved = append(resolved, term)
			continue
		}

		matches, err := e.store.Keys(ctx, e.codec.TermPattern(term))
		if err != nil {
			e.logger.Warn("failed to expand term", "term", term, "error", err)
			continue
		}
		sort.Strings(matches)
		for _, match := range matches {
			if e.codec.IsReservedPrefix(match) {
				continue
			}
			if bare, ok := e.codec.StripNamespace(match); ok {
				resolved = append(resolved, bare)
			}
		}
	}
	return resolved
}
