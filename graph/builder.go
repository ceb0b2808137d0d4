// Package graph turns tokenized documents into graph mutations: frequency
// counters, symmetric cooccurrence edges, and directed next edges.
package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexgraph/lexgraph/keys"
	"github.com/lexgraph/lexgraph/store"
	"github.com/lexgraph/lexgraph/token"
)

// Builder ingests node sequences into the cooccurrence graph.
//
// All counters are create-on-first-increment and monotonically
// non-decreasing; there is no decrement or delete operation. Ingesting the
// same text twice accumulates, it does not deduplicate.
type Builder struct {
	store  store.Store
	codec  keys.Codec
	logger *slog.Logger
}

// NewBuilder returns a Builder writing through the given store and codec.
// A nil logger falls back to slog.Default().
func NewBuilder(s store.Store, codec keys.Codec, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: s, codec: codec, logger: logger}
}

// Ingest walks the node sequence in order and applies every increment it
// implies, plus one bump of the global document counter, through a single
// batched store round trip. Filtered leaves and filtered groups contribute
// nothing and leave the running previous-key chain untouched; a group's
// original and children are flattened into the chain in order.
//
// The batch gives per-key atomicity only. There is no cross-key ordering
// guarantee and no rollback: a failed batch may have been partially
// applied by the store.
func (b *Builder) Ingest(ctx context.Context, docID string, sequence []token.Node) error {
	nodes := 0
	err := b.store.Batch(ctx, func(batch store.WriteBatch) {
		batch.IncrBy(b.codec.DocumentCountKey(), 1)

		prev := ""
		for _, node := range sequence {
			switch node.Kind {
			case token.KindLeaf:
				if node.Leaf.Filtered {
					continue
				}
				prev = b.incrementEdges(batch, docID, b.leafKey(node.Leaf), prev)
				nodes++
			case token.KindGroup:
				if node.Group.Filtered {
					continue
				}
				if !node.Group.Orig.Filtered {
					prev = b.incrementEdges(batch, docID, b.leafKey(node.Group.Orig), prev)
					nodes++
				}
				for _, child := range node.Group.Children {
					if child.Filtered {
						continue
					}
					prev = b.incrementEdges(batch, docID, b.leafKey(child), prev)
					nodes++
				}
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to ingest document %s: %w", docID, err)
	}

	b.logger.Debug("ingested document", "document", docID, "nodes", nodes)
	return nil
}

// incrementEdges queues the increments for one node occurrence: the
// corpus-wide frequency counter, both sides of the symmetric cooccurrence
// edge, and, when a previous key exists, the directed next edge. Returns
// the key so the caller can thread it as the next previous key.
func (b *Builder) incrementEdges(batch store.WriteBatch, docID, key, prev string) string {
	batch.IncrBy(b.codec.FrequencyKey(key), 1)
	batch.ZIncrBy(b.codec.AdjacencyKey(docID), 1, key)
	batch.ZIncrBy(b.codec.AdjacencyKey(key), 1, docID)
	if prev != "" {
		batch.ZIncrBy(b.codec.NextEdgeKey(prev), 1, key)
	}
	return key
}

func (b *Builder) leafKey(l token.Leaf) string {
	return b.codec.NodeKey(l.Tag, l.Term, l.Distinct)
}
