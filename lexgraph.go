package lexgraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/lexgraph/lexgraph/config"
	"github.com/lexgraph/lexgraph/graph"
	"github.com/lexgraph/lexgraph/health"
	"github.com/lexgraph/lexgraph/index"
	"github.com/lexgraph/lexgraph/keys"
	"github.com/lexgraph/lexgraph/search"
	"github.com/lexgraph/lexgraph/similarity"
	"github.com/lexgraph/lexgraph/store"
	"github.com/lexgraph/lexgraph/tfidf"
	"github.com/lexgraph/lexgraph/token"
)

// Option configures the Engine.
type Option func(*engineConfig)

type engineConfig struct {
	namespace   string
	separator   string
	searchLimit int
	tokenizer   token.Tokenizer
	logger      *slog.Logger
	tracer      trace.Tracer
}

// WithNamespace sets the key namespace prefix. Defaults to "lex".
func WithNamespace(ns string) Option {
	return func(c *engineConfig) {
		c.namespace = ns
	}
}

// WithSeparator sets the key separator character. Defaults to ":".
func WithSeparator(sep string) Option {
	return func(c *engineConfig) {
		c.separator = sep
	}
}

// WithSearchLimit sets the default per-term result limit of searches.
func WithSearchLimit(limit int) Option {
	return func(c *engineConfig) {
		c.searchLimit = limit
	}
}

// WithTokenizer sets the tokenizer used by IngestDocument. Without one,
// IngestDocument fails; all other operations work regardless.
func WithTokenizer(tok token.Tokenizer) Option {
	return func(c *engineConfig) {
		c.tokenizer = tok
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer; every exposed operation then
// runs inside a span. Without one, tracing is a no-op.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *engineConfig) {
		c.tracer = tracer
	}
}

// Engine is the facade over the graph components. It is safe for
// concurrent use; all state lives in the backing store.
type Engine struct {
	store       store.Store
	codec       keys.Codec
	tokenizer   token.Tokenizer
	logger      *slog.Logger
	tracer      trace.Tracer
	builder     *graph.Builder
	calculator  *tfidf.Calculator
	indexer     *index.Indexer
	searcher    *search.Engine
	similarity  *similarity.Engine
	ownsStore   bool
	searchLimit int
}

// New builds an Engine over an existing store connection. The caller keeps
// ownership of the store; Close will not close it.
func New(s store.Store, opts ...Option) *Engine {
	cfg := engineConfig{
		namespace:   config.DefaultNamespace,
		separator:   config.DefaultSeparator,
		searchLimit: config.DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = noop.NewTracerProvider().Tracer("lexgraph")
	}

	codec := keys.New(cfg.namespace, cfg.separator)
	calc := tfidf.NewCalculator(s, codec)
	return &Engine{
		store:       s,
		codec:       codec,
		tokenizer:   cfg.tokenizer,
		logger:      cfg.logger,
		tracer:      cfg.tracer,
		builder:     graph.NewBuilder(s, codec, cfg.logger),
		calculator:  calc,
		indexer:     index.NewIndexer(s, codec, calc, cfg.logger),
		searcher:    search.New(s, codec, cfg.searchLimit, cfg.logger),
		similarity:  similarity.New(s, codec),
		searchLimit: cfg.searchLimit,
	}
}

// Open connects to the store described by cfg and builds an Engine around
// it. Options are applied after the configuration, so they win on overlap.
// The Engine owns the connection; Close releases it.
func Open(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, opErr("Open", KindConfiguration, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}

	s, err := store.NewRedisStore(store.RedisOptions{
		URL:            cfg.Store.URL,
		DB:             cfg.Store.DB,
		ConnectTimeout: cfg.Store.GetConnectTimeout(),
		ReadTimeout:    cfg.Store.GetReadTimeout(),
		WriteTimeout:   cfg.Store.GetWriteTimeout(),
	})
	if err != nil {
		return nil, opErr("Open", KindStore, err)
	}

	merged := append([]Option{
		WithNamespace(cfg.Namespace),
		WithSeparator(cfg.Separator),
		WithSearchLimit(cfg.SearchLimit),
	}, opts...)
	engine := New(s, merged...)
	engine.ownsStore = true
	return engine, nil
}

// Close releases the store connection when the Engine owns it (i.e. it was
// built with Open). Engines built with New leave the store to the caller.
func (e *Engine) Close() error {
	if !e.ownsStore {
		return nil
	}
	return e.store.Close()
}

// Codec returns the engine's key codec, for callers that need to build or
// inspect graph keys.
func (e *Engine) Codec() keys.Codec {
	return e.codec
}

// IngestDocument stores the document's raw text, tokenizes it, and ingests
// the node sequence into the graph. An empty id gets a generated UUID; the
// effective id is returned. Re-ingesting an existing id overwrites the
// content and accumulates on every counter the text touches.
func (e *Engine) IngestDocument(ctx context.Context, id, text string) (string, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.IngestDocument")
	defer span.End()

	if e.tokenizer == nil {
		return "", opErr("Engine.IngestDocument", KindConfiguration, ErrNoTokenizer)
	}
	if id == "" {
		id = uuid.NewString()
	}
	span.SetAttributes(attribute.String("document.id", id))

	sequence, err := e.tokenizer.Tokenize(ctx, text)
	if err != nil {
		return "", opErr("Engine.IngestDocument", KindTokenize, err)
	}
	if err := e.store.Set(ctx, e.codec.ContentKey(id), text); err != nil {
		return "", opErr("Engine.IngestDocument", KindStore, err)
	}
	if err := e.builder.Ingest(ctx, id, sequence); err != nil {
		return "", opErr("Engine.IngestDocument", KindStore, err)
	}
	return id, nil
}

// Search ranks documents against the query terms by summed TF-IDF weight.
// See the search package for term-resolution and tie-break rules.
func (e *Engine) Search(ctx context.Context, terms []string, opts search.Options) ([]string, map[string]float64, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.Search")
	defer span.End()
	span.SetAttributes(attribute.Int("query.terms", len(terms)))

	ids, scores, err := e.searcher.Search(ctx, terms, opts)
	if err != nil {
		return nil, nil, opErr("Engine.Search", KindStore, err)
	}
	return ids, scores, nil
}

// GetContents returns the raw texts of the given document ids in one round
// trip. Unknown ids yield empty strings at their positions.
func (e *Engine) GetContents(ctx context.Context, ids []string) ([]string, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.GetContents")
	defer span.End()

	contentKeys := make([]string, len(ids))
	for i, id := range ids {
		contentKeys[i] = e.codec.ContentKey(id)
	}
	texts, err := e.store.MGet(ctx, contentKeys...)
	if err != nil {
		return nil, opErr("Engine.GetContents", KindStore, err)
	}
	return texts, nil
}

// IndexWeights recomputes the TF-IDF weight sets of one document. False
// without an error means the document has no terms or some terms failed.
func (e *Engine) IndexWeights(ctx context.Context, id string) (bool, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.IndexWeights")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", id))

	ok, err := e.indexer.IndexWeights(ctx, id)
	if err != nil {
		return false, opErr("Engine.IndexWeights", KindStore, err)
	}
	return ok, nil
}

// IndexAllWeights reindexes the whole corpus, at most eight documents at a
// time, reporting progress through the optional callback.
func (e *Engine) IndexAllWeights(ctx context.Context, progress func(index.Progress)) (index.Summary, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.IndexAllWeights")
	defer span.End()

	summary, err := e.indexer.IndexAllWeights(ctx, progress)
	if err != nil {
		return summary, opErr("Engine.IndexAllWeights", KindStore, err)
	}
	span.SetAttributes(attribute.Int("documents.total", summary.Total))
	return summary, nil
}

// CosineSimilarity returns the cosine similarity of two documents' full
// weight vectors.
func (e *Engine) CosineSimilarity(ctx context.Context, id1, id2 string) (float64, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.CosineSimilarity")
	defer span.End()

	score, err := e.similarity.Cosine(ctx, id1, id2, nil)
	if err != nil {
		return 0, opErr("Engine.CosineSimilarity", KindStore, err)
	}
	return score, nil
}

// ConceptSimilarity returns the cosine similarity of two documents
// restricted to noun- and adjective-tagged terms.
func (e *Engine) ConceptSimilarity(ctx context.Context, id1, id2 string) (float64, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.ConceptSimilarity")
	defer span.End()

	score, err := e.similarity.Concept(ctx, id1, id2)
	if err != nil {
		return 0, opErr("Engine.ConceptSimilarity", KindStore, err)
	}
	return score, nil
}

// ComputeTFIDF returns the relevance metrics of a node key. A non-empty id
// scopes the raw term frequency to that document.
func (e *Engine) ComputeTFIDF(ctx context.Context, term, id string) (tfidf.Metrics, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.ComputeTFIDF")
	defer span.End()
	span.SetAttributes(attribute.String("term", term))

	m, err := e.calculator.Compute(ctx, term, id)
	if err != nil {
		return m, opErr("Engine.ComputeTFIDF", KindStore, err)
	}
	return m, nil
}

// NextTerms returns up to limit node keys that most often followed the
// given node key across the corpus, heaviest first. A limit of zero or
// less uses the engine's search limit.
func (e *Engine) NextTerms(ctx context.Context, nodeKey string, limit int) ([]store.Z, error) {
	ctx, span := e.tracer.Start(ctx, "lexgraph.NextTerms")
	defer span.End()

	if limit <= 0 {
		limit = e.searchLimit
	}
	edges, err := e.store.ZRevRangeWithScores(ctx, e.codec.NextEdgeKey(nodeKey), 0, int64(limit)-1)
	if err != nil {
		return nil, opErr("Engine.NextTerms", KindStore, err)
	}
	return edges, nil
}

// Health pings the backing store and reports its reachability.
func (e *Engine) Health(ctx context.Context) health.Status {
	return health.CheckStore(ctx, e.store)
}
