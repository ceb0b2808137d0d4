// Package tfidf computes term relevance metrics from the raw graph
// counters. All counter reads for one computation happen in a single atomic
// multi-read, so the returned metrics are mutually consistent at one
// instant even under concurrent ingestion.
package tfidf

import (
	"context"
	"fmt"
	"math"

	"github.com/lexgraph/lexgraph/keys"
	"github.com/lexgraph/lexgraph/store"
)

// Metrics holds the relevance numbers for one term, optionally scoped to a
// document.
type Metrics struct {
	// Key is the bare node key the metrics were computed for.
	Key string

	// RawTF is the document-specific cooccurrence weight when a document
	// was given, else the corpus-wide frequency of the term.
	RawTF float64

	// DF is the term's document frequency: the number of documents whose
	// adjacency sets contain it.
	DF int64

	// N is the total document count.
	N int64

	// TF is the dampened term frequency, 1 + log10(RawTF); zero when
	// RawTF is zero.
	TF float64

	// IDF is log10(N/DF); zero when the term is unseen corpus-wide.
	IDF float64

	// TFIDF is the product TF * IDF.
	TFIDF float64
}

// Calculator computes TF-IDF metrics against a backing store.
type Calculator struct {
	store store.Store
	codec keys.Codec
}

// NewCalculator returns a Calculator reading through the given store and
// key codec.
func NewCalculator(s store.Store, codec keys.Codec) *Calculator {
	return &Calculator{store: s, codec: codec}
}

// Compute returns the metrics for a bare node key. A non-empty docID scopes
// the raw term frequency to that document's cooccurrence weight; an empty
// docID uses the corpus-wide total.
//
// Degenerate counters follow an explicit zero policy instead of producing
// non-finite values: a term unseen corpus-wide (zero document frequency)
// has IDF and TFIDF of zero, and a zero raw frequency has TF of zero.
func (c *Calculator) Compute(ctx context.Context, term, docID string) (Metrics, error) {
	cmds := []store.ReadCmd{
		{Op: store.OpGet, Key: c.codec.FrequencyKey(term)},
		{Op: store.OpGet, Key: c.codec.DocumentCountKey()},
		{Op: store.OpZCard, Key: c.codec.AdjacencyKey(term)},
	}
	if docID != "" {
		cmds = append(cmds, store.ReadCmd{
			Op:     store.OpZScore,
			Key:    c.codec.AdjacencyKey(docID),
			Member: term,
		})
	}

	results, err := c.store.MultiRead(ctx, cmds)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to read counters for %s: %w", term, err)
	}

	m := Metrics{
		Key:   term,
		RawTF: results[0].Value,
		N:     int64(results[1].Value),
		DF:    int64(results[2].Value),
	}
	if docID != "" {
		m.RawTF = results[3].Value
	}

	if m.RawTF > 0 {
		m.TF = 1 + math.Log10(m.RawTF)
	}
	if m.DF > 0 && m.N > 0 {
		m.IDF = math.Log10(float64(m.N) / float64(m.DF))
	}
	m.TFIDF = m.TF * m.IDF
	return m, nil
}
