// Package keys implements the namespaced key-encoding scheme for graph
// entities. A Codec is a pure value: formatting and parsing never touch
// the store and are fully deterministic.
//
// The key layout under a namespace prefix ns with separator ":" is:
//
//	ns:<tag>:<term>        term adjacency set (document id -> weight)
//	ns:<docid>             document adjacency set (node key -> weight)
//	ns:total:documents     global document counter
//	ns:total:<tag>:<term>  corpus-wide frequency counter
//	ns:next:<tag>:<term>   directed next-edge set
//	ns:weight:<id-or-key>  TF-IDF weight set
//	ns:content:<docid>     raw document text
//
// The prefixes total, next, weight and content are reserved for
// bookkeeping and are excluded from wildcard term expansion.
package keys

import "strings"

// Reserved bookkeeping prefixes under the active namespace.
const (
	TotalPrefix   = "total"
	NextPrefix    = "next"
	WeightPrefix  = "weight"
	ContentPrefix = "content"
)

// DocumentsCounter is the member name of the global document counter under
// TotalPrefix. It contains no separator, so it can never collide with a
// tag:term node key.
const DocumentsCounter = "documents"

var reservedPrefixes = []string{TotalPrefix, NextPrefix, WeightPrefix, ContentPrefix}

// Part is one element of a key. Exactly one of the fields is used: a tagged
// node part contributes the lower-cased tag followed by the node's distinct
// value (or lower-cased term), a literal part is contributed verbatim.
type Part struct {
	// Tag is the part-of-speech tag of a tagged node part.
	Tag string

	// Term is the surface term of a tagged node part.
	Term string

	// Distinct, when non-empty, replaces Term in the encoded key.
	Distinct string

	// Literal is a plain string part, used as-is.
	Literal string
}

// Node builds a tagged node part.
func Node(tag, term, distinct string) Part {
	return Part{Tag: tag, Term: term, Distinct: distinct}
}

// Lit builds a literal part.
func Lit(s string) Part {
	return Part{Literal: s}
}

// Codec formats and parses namespaced graph keys. The zero value uses no
// namespace and ":" as separator; use New for a namespaced codec.
type Codec struct {
	namespace string
	separator string
}

// New returns a Codec using the given namespace prefix and separator.
// An empty separator defaults to ":".
func New(namespace, separator string) Codec {
	if separator == "" {
		separator = ":"
	}
	return Codec{namespace: namespace, separator: separator}
}

// Namespace returns the configured namespace prefix, which may be empty.
func (c Codec) Namespace() string { return c.namespace }

// Separator returns the configured separator.
func (c Codec) Separator() string { return c.sep() }

func (c Codec) sep() string {
	if c.separator == "" {
		return ":"
	}
	return c.separator
}

// NodeKey encodes a tagged node as its bare node key, e.g. "noun:cat".
// The tag is lower-cased; a non-empty distinct value wins over the term,
// which is otherwise lower-cased. The namespace is not applied: node keys
// are stored namespaced but exchanged bare.
func (c Codec) NodeKey(tag, term, distinct string) string {
	value := distinct
	if value == "" {
		value = strings.ToLower(term)
	}
	return strings.ToLower(tag) + c.sep() + value
}

// Format joins the namespace prefix (when configured) and the given parts
// with the separator. Tagged parts contribute tag and value as two
// elements; literal parts contribute one. Empty literals are skipped.
func (c Codec) Format(parts ...Part) string {
	elems := make([]string, 0, len(parts)+1)
	if c.namespace != "" {
		elems = append(elems, c.namespace)
	}
	for _, p := range parts {
		switch {
		case p.Tag != "":
			value := p.Distinct
			if value == "" {
				value = strings.ToLower(p.Term)
			}
			elems = append(elems, strings.ToLower(p.Tag), value)
		case p.Literal != "":
			elems = append(elems, p.Literal)
		}
	}
	return strings.Join(elems, c.sep())
}

// AdjacencyKey returns the storage key of an adjacency set. The id is either
// a bare node key or a document id.
func (c Codec) AdjacencyKey(id string) string {
	return c.Format(Lit(id))
}

// DocumentCountKey returns the key of the global document counter.
func (c Codec) DocumentCountKey() string {
	return c.Format(Lit(TotalPrefix), Lit(DocumentsCounter))
}

// FrequencyKey returns the key of the corpus-wide frequency counter for a
// node key.
func (c Codec) FrequencyKey(nodeKey string) string {
	return c.Format(Lit(TotalPrefix), Lit(nodeKey))
}

// NextEdgeKey returns the key of the directed next-edge set of a node key.
func (c Codec) NextEdgeKey(nodeKey string) string {
	return c.Format(Lit(NextPrefix), Lit(nodeKey))
}

// WeightKey returns the key of the weight set of a document id or node key.
func (c Codec) WeightKey(id string) string {
	return c.Format(Lit(WeightPrefix), Lit(id))
}

// ContentKey returns the key holding a document's raw text.
func (c Codec) ContentKey(docID string) string {
	return c.Format(Lit(ContentPrefix), Lit(docID))
}

// ContentPattern returns the wildcard pattern matching every content key,
// used to enumerate the document id universe.
func (c Codec) ContentPattern() string {
	return c.Format(Lit(ContentPrefix), Lit("*"))
}

// TermPattern returns the wildcard pattern matching node keys whose term
// component equals the given unqualified term.
func (c Codec) TermPattern(term string) string {
	return c.Format(Lit("*"), Lit(term))
}

// IsReservedPrefix reports whether key is a bookkeeping key: one that
// begins, under the active namespace, with any of the four reserved
// prefixes. Used to exclude counters, edges, weights and contents from
// wildcard term expansion.
func (c Codec) IsReservedPrefix(key string) bool {
	bare, ok := c.StripNamespace(key)
	if !ok {
		return false
	}
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(bare, p+c.sep()) {
			return true
		}
	}
	return false
}

// StripNamespace removes the namespace prefix and separator from a storage
// key, reporting whether the key carried the prefix. With no namespace
// configured the key is returned unchanged with ok true.
func (c Codec) StripNamespace(key string) (bare string, ok bool) {
	if c.namespace == "" {
		return key, true
	}
	prefix := c.namespace + c.sep()
	if !strings.HasPrefix(key, prefix) {
		return key, false
	}
	return strings.TrimPrefix(key, prefix), true
}

// TrimContentPrefix extracts the document id from a content key.
func (c Codec) TrimContentPrefix(key string) (docID string, ok bool) {
	bare, ok := c.StripNamespace(key)
	if !ok {
		return "", false
	}
	prefix := ContentPrefix + c.sep()
	if !strings.HasPrefix(bare, prefix) {
		return "", false
	}
	return strings.TrimPrefix(bare, prefix), true
}

// IsQualified reports whether a search term already names a concrete node
// key, i.e. contains the separator.
func (c Codec) IsQualified(term string) bool {
	return strings.Contains(term, c.sep())
}

// Components splits a bare node key into its separator-delimited parts.
func (c Codec) Components(nodeKey string) []string {
	return strings.Split(nodeKey, c.sep())
}
