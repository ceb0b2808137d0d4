// Package similarity compares documents by the cosine of their TF-IDF
// weight vectors, optionally restricted to terms carrying particular tags.
package similarity

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/lexgraph/lexgraph/keys"
	"github.com/lexgraph/lexgraph/store"
)

// ConceptTags is the fixed tag filter of Concept: similarity over content
// words only.
var ConceptTags = []string{"noun", "adj"}

// Engine computes similarity scores between documents.
type Engine struct {
	store store.Store
	codec keys.Codec
}

// New returns a similarity Engine reading through the given store and codec.
func New(s store.Store, codec keys.Codec) *Engine {
	return &Engine{store: s, codec: codec}
}

// Cosine returns the cosine similarity of the two documents' weight
// vectors. A non-empty tagFilter keeps only vector entries whose node key
// has one of the filter tags among its components; both vectors are
// filtered the same way before anything is computed.
//
// The dot product runs over the intersection of the two key sets, while
// each magnitude covers that vector's full filtered set, so documents
// sharing only a fraction of their terms score below one. A zero magnitude
// on either side yields a similarity of zero, never a non-finite value.
func (e *Engine) Cosine(ctx context.Context, id1, id2 string, tagFilter []string) (float64, error) {
	v1, err := e.vector(ctx, id1, tagFilter)
	if err != nil {
		return 0, err
	}
	v2, err := e.vector(ctx, id2, tagFilter)
	if err != nil {
		return 0, err
	}

	dot := 0.0
	for key, w1 := range v1 {
		if w2, ok := v2[key]; ok {
			dot += w1 * w2
		}
	}

	m1 := magnitude(v1)
	m2 := magnitude(v2)
	if m1 == 0 || m2 == 0 {
		return 0, nil
	}
	return dot / (m1 * m2), nil
}

// Concept is Cosine restricted to noun- and adjective-tagged terms.
func (e *Engine) Concept(ctx context.Context, id1, id2 string) (float64, error) {
	return e.Cosine(ctx, id1, id2, ConceptTags)
}

// vector reads a document's full weight set as a term->score map, dropping
// entries that fail the tag filter.
func (e *Engine) vector(ctx context.Context, docID string, tagFilter []string) (map[string]float64, error) {
	entries, err := e.store.ZRangeWithScores(ctx, e.codec.WeightKey(docID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to read weight vector of %s: %w", docID, err)
	}

	v := make(map[string]float64, len(entries))
	for _, entry := range entries {
		if len(tagFilter) > 0 && !hasTag(e.codec.Components(entry.Member), tagFilter) {
			continue
		}
		v[entry.Member] = entry.Score
	}
	return v, nil
}

func hasTag(components, tags []string) bool {
	for _, c := range components {
		if slices.Contains(tags, c) {
			return true
		}
	}
	return false
}

func magnitude(v map[string]float64) float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
