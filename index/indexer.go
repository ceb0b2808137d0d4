// Package index keeps the derived TF-IDF weight sets consistent with the
// raw graph counters. Weights are overwritten in place on every run; they
// are a pure function of the counters at computation time, so concurrent
// reindexing of the same document is benign.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lexgraph/lexgraph/keys"
	"github.com/lexgraph/lexgraph/store"
	"github.com/lexgraph/lexgraph/tfidf"
)

// fanOut caps how many documents IndexAllWeights processes concurrently.
// It is a fixed resource-protection bound, not a tuning knob.
const fanOut = 8

// Progress reports the running state of a corpus-wide reindex. Count is the
// number of completed attempts, successful or not.
type Progress struct {
	Total   int
	Count   int
	Percent float64
}

// Summary is the final result of a corpus-wide reindex.
type Summary struct {
	Total int
	Count int
}

// Indexer recomputes and persists TF-IDF scores.
type Indexer struct {
	store  store.Store
	codec  keys.Codec
	calc   *tfidf.Calculator
	logger *slog.Logger
}

// NewIndexer returns an Indexer writing through the given store and codec.
// A nil logger falls back to slog.Default().
func NewIndexer(s store.Store, codec keys.Codec, calc *tfidf.Calculator, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{store: s, codec: codec, calc: calc, logger: logger}
}

// IndexWeights recomputes the TF-IDF score of every term in the document's
// adjacency set and writes each score into both the document's weight set
// and the term's weight set.
//
// A document with no adjacency entries is a boolean failure, not an error.
// Individual term failures degrade the returned flag but every term is
// attempted; only a failure to read the adjacency set itself is an error.
func (ix *Indexer) IndexWeights(ctx context.Context, docID string) (bool, error) {
	entries, err := ix.store.ZRangeWithScores(ctx, ix.codec.AdjacencyKey(docID), 0, -1)
	if err != nil {
		return false, fmt.Errorf("failed to read adjacency of %s: %w", docID, err)
	}
	if len(entries) == 0 {
		ix.logger.Debug("document has no terms to index", "document", docID)
		return false, nil
	}

	ok := true
	for _, entry := range entries {
		term := entry.Member
		m, err := ix.calc.Compute(ctx, term, docID)
		if err != nil {
			ix.logger.Warn("failed to compute weight", "document", docID, "term", term, "error", err)
			ok = false
			continue
		}
		if err := ix.store.ZAdd(ctx, ix.codec.WeightKey(docID), m.TFIDF, term); err != nil {
			ix.logger.Warn("failed to write document weight", "document", docID, "term", term, "error", err)
			ok = false
			continue
		}
		if err := ix.store.ZAdd(ctx, ix.codec.WeightKey(term), m.TFIDF, docID); err != nil {
			ix.logger.Warn("failed to write term weight", "document", docID, "term", term, "error", err)
			ok = false
		}
	}
	return ok, nil
}

// IndexAllWeights reindexes every known document, up to eight at a time.
// The document universe is derived from existing content entries. The
// progress callback, when non-nil, fires after each completed attempt;
// completion order across documents is unspecified. Per-document failures
// are counted and logged, never fatal.
func (ix *Indexer) IndexAllWeights(ctx context.Context, progress func(Progress)) (Summary, error) {
	contentKeys, err := ix.store.Keys(ctx, ix.codec.ContentPattern())
	if err != nil {
		return Summary{}, fmt.Errorf("failed to enumerate documents: %w", err)
	}

	ids := make([]string, 0, len(contentKeys))
	for _, key := range contentKeys {
		if id, ok := ix.codec.TrimContentPrefix(key); ok {
			ids = append(ids, id)
		}
	}

	total := len(ids)
	if total == 0 {
		return Summary{}, nil
	}

	var (
		mu    sync.Mutex
		count int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for _, id := range ids {
		g.Go(func() error {
			ok, err := ix.IndexWeights(gctx, id)
			if err != nil {
				ix.logger.Warn("failed to index document", "document", id, "error", err)
			} else if !ok {
				ix.logger.Debug("document indexed with failures", "document", id)
			}

			mu.Lock()
			count++
			if progress != nil {
				// invoked under the lock so callbacks observe a
				// strictly increasing count
				progress(Progress{Total: total, Count: count, Percent: float64(count) / float64(total) * 100})
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return Summary{Total: total, Count: count}, nil
}
