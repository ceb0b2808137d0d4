package tfidf

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexgraph/lexgraph/keys"
	"github.com/lexgraph/lexgraph/store"
)

func setupCalculator(t *testing.T) (*Calculator, *store.RedisStore, keys.Codec) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := store.NewRedisStore(store.RedisOptions{URL: fmt.Sprintf("redis://%s", mr.Addr())})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		mr.Close()
	})

	codec := keys.New("lex", ":")
	return NewCalculator(s, codec), s, codec
}

// seedTerm installs counters for one term: corpus frequency, total document
// count, and one adjacency entry per document weight.
func seedTerm(t *testing.T, s *store.RedisStore, codec keys.Codec, term string, freq, docs int64, weights map[string]float64) {
	t.Helper()
	ctx := context.Background()

	_, err := s.IncrBy(ctx, codec.FrequencyKey(term), freq)
	require.NoError(t, err)
	_, err = s.IncrBy(ctx, codec.DocumentCountKey(), docs)
	require.NoError(t, err)
	for docID, w := range weights {
		require.NoError(t, s.ZAdd(ctx, codec.AdjacencyKey(term), w, docID))
		require.NoError(t, s.ZAdd(ctx, codec.AdjacencyKey(docID), w, term))
	}
}

func TestComputeCorpusWide(t *testing.T) {
	calc, s, codec := setupCalculator(t)
	ctx := context.Background()

	seedTerm(t, s, codec, "noun:cat", 100, 1000, map[string]float64{"d1": 2, "d2": 3})

	m, err := calc.Compute(ctx, "noun:cat", "")
	require.NoError(t, err)

	assert.Equal(t, "noun:cat", m.Key)
	assert.Equal(t, 100.0, m.RawTF)
	assert.Equal(t, int64(2), m.DF)
	assert.Equal(t, int64(1000), m.N)
	assert.InDelta(t, 3.0, m.TF, 1e-12)                  // 1 + log10(100)
	assert.InDelta(t, math.Log10(500), m.IDF, 1e-12)     // log10(1000/2)
	assert.InDelta(t, 3*math.Log10(500), m.TFIDF, 1e-12)
}

func TestComputeDocumentScoped(t *testing.T) {
	calc, s, codec := setupCalculator(t)
	ctx := context.Background()

	seedTerm(t, s, codec, "noun:cat", 100, 10, map[string]float64{"d1": 10})

	m, err := calc.Compute(ctx, "noun:cat", "d1")
	require.NoError(t, err)

	assert.Equal(t, 10.0, m.RawTF) // document weight, not corpus total
	assert.InDelta(t, 2.0, m.TF, 1e-12)
	assert.InDelta(t, 1.0, m.IDF, 1e-12) // log10(10/1)
	assert.InDelta(t, 2.0, m.TFIDF, 1e-12)
}

func TestComputeRawTFOne(t *testing.T) {
	calc, s, codec := setupCalculator(t)

	seedTerm(t, s, codec, "verb:run", 1, 4, map[string]float64{"d1": 1})

	m, err := calc.Compute(context.Background(), "verb:run", "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.TF)
}

func TestComputeTermInEveryDocument(t *testing.T) {
	calc, s, codec := setupCalculator(t)

	// df == n means idf and tfidf collapse to zero regardless of tf.
	seedTerm(t, s, codec, "noun:cat", 30, 3, map[string]float64{"d1": 1, "d2": 1, "d3": 1})

	m, err := calc.Compute(context.Background(), "noun:cat", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.IDF)
	assert.Equal(t, 0.0, m.TFIDF)
	assert.Greater(t, m.TF, 1.0)
}

func TestComputeUnseenTerm(t *testing.T) {
	calc, _, _ := setupCalculator(t)

	m, err := calc.Compute(context.Background(), "noun:unicorn", "")
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.RawTF)
	assert.Equal(t, int64(0), m.DF)
	assert.Equal(t, 0.0, m.TF)
	assert.Equal(t, 0.0, m.IDF)
	assert.Equal(t, 0.0, m.TFIDF)
	assert.False(t, math.IsInf(m.TFIDF, 0))
	assert.False(t, math.IsNaN(m.TFIDF))
}

func TestComputeDocumentWithoutTerm(t *testing.T) {
	calc, s, codec := setupCalculator(t)

	seedTerm(t, s, codec, "noun:cat", 5, 5, map[string]float64{"d1": 5})

	m, err := calc.Compute(context.Background(), "noun:cat", "d-other")
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.RawTF)
	assert.Equal(t, 0.0, m.TF)
	assert.Equal(t, 0.0, m.TFIDF)
}
