package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a miniredis instance and returns a connected RedisStore.
func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := NewRedisStore(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		mr.Close()
	})

	return s, mr
}

func TestNewRedisStore(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		s, err := NewRedisStore(RedisOptions{URL: fmt.Sprintf("redis://%s", mr.Addr())})
		require.NoError(t, err)
		require.NotNil(t, s)
		defer s.Close()
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedisStore(RedisOptions{
			URL:            "redis://localhost:1",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisStore(RedisOptions{URL: "invalid://url"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

func TestGetSet(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	t.Run("missing key not found", func(t *testing.T) {
		_, found, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k", "v"))
		value, found, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "v", value)
	})
}

func TestMGet(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "c", "3"))

	values, err := s.MGet(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", "3"}, values)

	values, err = s.MGet(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestIncrBy(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	n, err := s.IncrBy(ctx, "counter", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.IncrBy(ctx, "counter", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSortedSets(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	t.Run("ZIncrBy creates and accumulates", func(t *testing.T) {
		score, err := s.ZIncrBy(ctx, "zs", 1, "m")
		require.NoError(t, err)
		assert.Equal(t, 1.0, score)

		score, err = s.ZIncrBy(ctx, "zs", 1, "m")
		require.NoError(t, err)
		assert.Equal(t, 2.0, score)
	})

	t.Run("ZAdd overwrites", func(t *testing.T) {
		require.NoError(t, s.ZAdd(ctx, "zw", 0.5, "m"))
		require.NoError(t, s.ZAdd(ctx, "zw", 0.25, "m"))

		score, found, err := s.ZScore(ctx, "zw", "m")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 0.25, score)
	})

	t.Run("ZScore missing member", func(t *testing.T) {
		_, found, err := s.ZScore(ctx, "zw", "absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("ZCard", func(t *testing.T) {
		n, err := s.ZCard(ctx, "zs")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = s.ZCard(ctx, "empty")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("ranges ordered by score", func(t *testing.T) {
		require.NoError(t, s.ZAdd(ctx, "zr", 3, "c"))
		require.NoError(t, s.ZAdd(ctx, "zr", 1, "a"))
		require.NoError(t, s.ZAdd(ctx, "zr", 2, "b"))

		asc, err := s.ZRangeWithScores(ctx, "zr", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []Z{{"a", 1}, {"b", 2}, {"c", 3}}, asc)

		desc, err := s.ZRevRangeWithScores(ctx, "zr", 0, 1)
		require.NoError(t, err)
		assert.Equal(t, []Z{{"c", 3}, {"b", 2}}, desc)
	})
}

func TestKeys(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "lex:noun:cat", "1"))
	require.NoError(t, s.Set(ctx, "lex:adj:fat", "1"))
	require.NoError(t, s.Set(ctx, "lex:weight:noun:cat", "1"))

	matches, err := s.Keys(ctx, "lex:*:cat")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lex:noun:cat", "lex:weight:noun:cat"}, matches)
}

func TestMultiRead(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "total", "7"))
	require.NoError(t, s.ZAdd(ctx, "adj", 2, "d1"))
	require.NoError(t, s.ZAdd(ctx, "adj", 1, "d2"))

	t.Run("consistent snapshot of mixed reads", func(t *testing.T) {
		results, err := s.MultiRead(ctx, []ReadCmd{
			{Op: OpGet, Key: "total"},
			{Op: OpZCard, Key: "adj"},
			{Op: OpZScore, Key: "adj", Member: "d1"},
		})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, ReadResult{Value: 7, Found: true}, results[0])
		assert.Equal(t, ReadResult{Value: 2, Found: true}, results[1])
		assert.Equal(t, ReadResult{Value: 2, Found: true}, results[2])
	})

	t.Run("missing entries reported not found", func(t *testing.T) {
		results, err := s.MultiRead(ctx, []ReadCmd{
			{Op: OpGet, Key: "absent"},
			{Op: OpZScore, Key: "adj", Member: "absent"},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.False(t, results[0].Found)
		assert.False(t, results[1].Found)
	})

	t.Run("empty command list", func(t *testing.T) {
		results, err := s.MultiRead(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestBatch(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	err := s.Batch(ctx, func(b WriteBatch) {
		b.IncrBy("total:noun:cat", 1)
		b.IncrBy("total:noun:cat", 1)
		b.ZIncrBy("d1", 1, "noun:cat")
		b.ZIncrBy("noun:cat", 1, "d1")
	})
	require.NoError(t, err)

	value, found, err := s.Get(ctx, "total:noun:cat")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2", value)

	score, found, err := s.ZScore(ctx, "d1", "noun:cat")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1.0, score)
}

func TestPing(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	mr.Close()
	err := s.Ping(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
