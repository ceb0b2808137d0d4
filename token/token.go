// Package token defines the contract between a natural-language tokenizer
// and the graph builder. The library does not tokenize or tag text itself;
// callers supply a Tokenizer and the builder consumes its node sequence
// exactly once per ingest, in order, without mutation.
package token

import "context"

// Kind discriminates the node variants. Every Node is exactly one of the
// two kinds; consumers must handle both.
type Kind int

const (
	// KindLeaf is a single tagged term.
	KindLeaf Kind = iota

	// KindGroup is a compound: an original tagged term plus the leaves it
	// decomposes into. Groups and their children are flattened into one
	// linear chain for next-edge purposes.
	KindGroup
)

// Leaf is a single tagged term produced by the tokenizer. A filtered leaf
// contributes nothing to the graph and does not break or extend the running
// previous-key chain.
type Leaf struct {
	// Tag is the part-of-speech tag, e.g. "noun".
	Tag string

	// Term is the surface term.
	Term string

	// Distinct, when non-empty, replaces Term in the node key. Taggers use
	// it to collapse inflected forms onto one node.
	Distinct string

	// Filtered marks the leaf as excluded from the graph (stop words,
	// punctuation).
	Filtered bool
}

// Group is a compound node: the original term plus its decomposition.
type Group struct {
	// Orig is the compound itself. When not filtered it is chained exactly
	// like a leaf, before its children.
	Orig Leaf

	// Children are the decomposed leaves, chained in order after Orig.
	Children []Leaf

	// Filtered marks the whole group, children included, as excluded.
	Filtered bool
}

// Node is the tagged variant consumed by the graph builder. Use NewLeaf and
// NewGroup to construct values; Kind selects which field is set.
type Node struct {
	Kind  Kind
	Leaf  Leaf
	Group Group
}

// NewLeaf wraps a Leaf as a Node.
func NewLeaf(l Leaf) Node {
	return Node{Kind: KindLeaf, Leaf: l}
}

// NewGroup wraps a Group as a Node.
func NewGroup(g Group) Node {
	return Node{Kind: KindGroup, Group: g}
}

// Tokenizer turns raw document text into one ordered node sequence.
//
// Implementations typically wrap an external part-of-speech tagger. The
// sequence is consumed once per ingest; the graph builder never reorders
// or mutates it.
type Tokenizer interface {
	// Tokenize produces the node sequence for the given text.
	Tokenize(ctx context.Context, text string) ([]Node, error)
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(ctx context.Context, text string) ([]Node, error)

// Tokenize calls f.
func (f TokenizerFunc) Tokenize(ctx context.Context, text string) ([]Node, error) {
	return f(ctx, text)
}
