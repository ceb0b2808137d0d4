// Package lexgraph builds an incremental, weighted term-cooccurrence graph
// over a corpus of documents and answers relevance and similarity queries
// against it with TF-IDF and cosine-similarity scoring.
//
// The graph lives in a Redis-compatible backing store. Ingesting a
// tokenized document increments frequency counters, symmetric cooccurrence
// edges between the document and its terms, and directed next edges
// between consecutive terms. Derived TF-IDF weight sets are recomputed on
// demand from those counters and back term-based search ranking and
// document similarity.
//
// # Core Concepts
//
//   - Node key: canonical string identifying a tagged term, e.g. "noun:cat"
//   - Adjacency set: sorted set recording cooccurrence weights between a
//     document and its terms (kept symmetric on both sides)
//   - Weight set: sorted set of TF-IDF scores, stored per document and
//     mirrored per term
//   - Concept similarity: cosine similarity restricted to noun- and
//     adjective-tagged terms
//
// # Getting Started
//
// Connect an Engine to a store and supply the tokenizer that turns raw
// text into node sequences (tokenization itself is outside this library):
//
//	s, err := store.NewRedisStore(store.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	engine := lexgraph.New(s, lexgraph.WithTokenizer(myTagger))
//
//	id, err := engine.IngestDocument(ctx, "", "the cat sat on the mat")
//	_, err = engine.IndexAllWeights(ctx, nil)
//	ids, scores, err := engine.Search(ctx, []string{"cat"}, search.Options{})
//
// All counters are monotonically non-decreasing: re-ingesting a document
// accumulates rather than replaces, and the library defines no deletion.
// Weight sets are derived data and may be stale until reindexed.
package lexgraph
