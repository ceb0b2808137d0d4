package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKey(t *testing.T) {
	c := New("lex", ":")

	t.Run("lower-cases tag and term", func(t *testing.T) {
		assert.Equal(t, "noun:cat", c.NodeKey("NOUN", "Cat", ""))
	})

	t.Run("distinct value wins over term", func(t *testing.T) {
		assert.Equal(t, "noun:Felis", c.NodeKey("Noun", "cat", "Felis"))
	})
}

func TestFormat(t *testing.T) {
	t.Run("namespace and separator applied", func(t *testing.T) {
		c := New("lex", ":")
		assert.Equal(t, "lex:noun:cat", c.Format(Node("NOUN", "cat", "")))
	})

	t.Run("no namespace", func(t *testing.T) {
		c := New("", ":")
		assert.Equal(t, "noun:cat", c.Format(Node("noun", "cat", "")))
	})

	t.Run("mixed tagged and literal parts", func(t *testing.T) {
		c := New("lex", ":")
		assert.Equal(t, "lex:weight:noun:cat", c.Format(Lit("weight"), Node("noun", "cat", "")))
	})

	t.Run("custom separator", func(t *testing.T) {
		c := New("g", "|")
		assert.Equal(t, "g|total|documents", c.DocumentCountKey())
	})

	t.Run("empty literals skipped", func(t *testing.T) {
		c := New("lex", ":")
		assert.Equal(t, "lex:a", c.Format(Lit(""), Lit("a")))
	})
}

func TestBookkeepingKeys(t *testing.T) {
	c := New("lex", ":")

	assert.Equal(t, "lex:total:documents", c.DocumentCountKey())
	assert.Equal(t, "lex:total:noun:cat", c.FrequencyKey("noun:cat"))
	assert.Equal(t, "lex:next:noun:cat", c.NextEdgeKey("noun:cat"))
	assert.Equal(t, "lex:weight:d1", c.WeightKey("d1"))
	assert.Equal(t, "lex:content:d1", c.ContentKey("d1"))
	assert.Equal(t, "lex:content:*", c.ContentPattern())
	assert.Equal(t, "lex:*:cat", c.TermPattern("cat"))
	assert.Equal(t, "lex:noun:cat", c.AdjacencyKey("noun:cat"))
}

func TestIsReservedPrefix(t *testing.T) {
	c := New("lex", ":")

	tests := []struct {
		key      string
		reserved bool
	}{
		{"lex:total:noun:cat", true},
		{"lex:total:documents", true},
		{"lex:next:noun:cat", true},
		{"lex:weight:noun:cat", true},
		{"lex:content:d1", true},
		{"lex:noun:cat", false},
		{"lex:d1", false},
		{"other:total:noun:cat", false}, // foreign namespace
		{"lex:totality:noun:cat", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.reserved, c.IsReservedPrefix(tt.key), tt.key)
	}
}

func TestStripNamespace(t *testing.T) {
	t.Run("strips configured prefix", func(t *testing.T) {
		c := New("lex", ":")
		bare, ok := c.StripNamespace("lex:noun:cat")
		require.True(t, ok)
		assert.Equal(t, "noun:cat", bare)
	})

	t.Run("rejects foreign prefix", func(t *testing.T) {
		c := New("lex", ":")
		_, ok := c.StripNamespace("other:noun:cat")
		assert.False(t, ok)
	})

	t.Run("no namespace passes through", func(t *testing.T) {
		c := New("", ":")
		bare, ok := c.StripNamespace("noun:cat")
		require.True(t, ok)
		assert.Equal(t, "noun:cat", bare)
	})
}

func TestTrimContentPrefix(t *testing.T) {
	c := New("lex", ":")

	id, ok := c.TrimContentPrefix("lex:content:d1")
	require.True(t, ok)
	assert.Equal(t, "d1", id)

	_, ok = c.TrimContentPrefix("lex:weight:d1")
	assert.False(t, ok)
}

func TestIsQualified(t *testing.T) {
	c := New("lex", ":")
	assert.True(t, c.IsQualified("noun:cat"))
	assert.False(t, c.IsQualified("cat"))
}

func TestComponents(t *testing.T) {
	c := New("lex", ":")
	assert.Equal(t, []string{"noun", "cat"}, c.Components("noun:cat"))
}
