package ponyx

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Parse modes, used in cache keys
const (
	modeFile  = "file"
	modeNodes = "nodes"
)

// Engine is the main entry point of the frontend. It holds the embedding,
// the diagnostic policy, and the optional cache and storage. It is safe for
// concurrent use; every parse runs on its own parser state.
type Engine struct {
	config *engineConfig
	policy diagnosticPolicy
	// scope identifies the settings that change parser output
	scope  string
	logger *zap.Logger
}

// ParseResult is the outcome of a parse: the possibly holed tree and every
// diagnostic reported on the way. File is nil for ParseNodes.
type ParseResult struct {
	Source      *Source
	File        *File
	Root        *RootNode
	Diagnostics Diagnostics
}

// HasErrors reports whether any diagnostic has error severity
func (r *ParseResult) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}

// ExprResult is the outcome of parsing a standalone expression.
type ExprResult struct {
	Source      *Source
	Expr        Maybe[Expr]
	Diagnostics Diagnostics
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug(LogMsgEngineCreated,
		zap.String(LogFieldExt, config.ext.ID()),
		zap.Int(LogFieldDepth, config.maxDepth))

	return &Engine{
		config: config,
		policy: diagnosticPolicy{
			severities: config.severities,
			ignored:    config.ignored,
			strict:     config.strict,
		},
		scope:  parseScope(config),
		logger: logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Ext returns the embedding in use
func (e *Engine) Ext() Ext {
	return e.config.ext
}

// Storage returns the configured source storage, or nil
func (e *Engine) Storage() SourceStorage {
	return e.config.storage
}

// Cache returns the configured parse cache, or nil
func (e *Engine) Cache() *ParseCache {
	return e.config.cache
}

// Parse parses a complete file: module, fence and markup. Malformed input
// never produces an error; problems are reported in the diagnostics.
func (e *Engine) Parse(ctx context.Context, id SourceID, text string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewCancelledError(id, err)
	}
	return e.cached(modeFile, id, text, func(p *parser) *ParseResult {
		f := p.parseFile()
		return &ParseResult{File: f, Root: f.Root}
	}), nil
}

// ParseNodes parses a bare node sequence without module or fence.
func (e *Engine) ParseNodes(ctx context.Context, id SourceID, text string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewCancelledError(id, err)
	}
	return e.cached(modeNodes, id, text, func(p *parser) *ParseResult {
		return &ParseResult{Root: p.parseNodes()}
	}), nil
}

// ParseExpr parses text as a single PonyX expression
func (e *Engine) ParseExpr(ctx context.Context, id SourceID, text string) (*ExprResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewCancelledError(id, err)
	}
	p := e.newParser(NewSource(id, text))
	expr := p.parseExprSource()
	return &ExprResult{
		Source:      p.src,
		Expr:        expr,
		Diagnostics: e.policy.apply(p.diags),
	}, nil
}

// ParseStrict parses a file and returns a parse error when the reported
// diagnostics contain errors, or warnings in strict mode.
func (e *Engine) ParseStrict(ctx context.Context, id SourceID, text string) (*ParseResult, error) {
	result, err := e.Parse(ctx, id, text)
	if err != nil {
		return nil, err
	}
	if e.policy.failing(result.Diagnostics) {
		return result, NewParseError(result.Source, e.policy.promote(result.Diagnostics))
	}
	return result, nil
}

// MustParse parses a file and panics on errors.
func (e *Engine) MustParse(id SourceID, text string) *ParseResult {
	result, err := e.ParseStrict(context.Background(), id, text)
	if err != nil {
		panic(err)
	}
	return result
}

// ParseStored fetches the latest version of a named source from storage and
// parses it.
func (e *Engine) ParseStored(ctx context.Context, name string) (*ParseResult, error) {
	if e.config.storage == nil {
		return nil, NewNoStorageError()
	}
	stored, err := e.config.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	e.logger.Debug(LogMsgStorageGet,
		zap.String(LogFieldName, stored.Name),
		zap.Int(LogFieldVersion, stored.Version))
	return e.Parse(ctx, stored.SourceID(), stored.Source)
}

func (e *Engine) newParser(src *Source) *parser {
	return newParser(src, parserConfig{
		ext:      e.config.ext,
		entities: e.config.entities,
		maxDepth: e.config.maxDepth,
		logger:   e.logger,
	})
}

// cached runs a parse through the cache when one is configured. The cache
// holds raw results; the diagnostic policy is applied to a copy.
func (e *Engine) cached(mode string, id SourceID, text string, run func(*parser) *ParseResult) *ParseResult {
	var key string
	if e.config.cache != nil {
		key = CacheKey(mode, id, e.scope, text)
		if raw, ok := e.config.cache.Get(key); ok {
			return e.report(raw)
		}
	}

	p := e.newParser(NewSource(id, text))
	raw := run(p)
	raw.Source = p.src
	raw.Diagnostics = p.diags

	if e.config.cache != nil {
		e.config.cache.Set(key, raw)
	}
	return e.report(raw)
}

// parseScope joins the embedding id, the depth limit and the sorted extra
// entities. Engines sharing a cache only share results when these match.
func parseScope(config *engineConfig) string {
	names := make([]string, 0, len(config.entities))
	for name := range config.entities {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(config.ext.ID())
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(config.maxDepth))
	for _, name := range names {
		b.WriteByte(0)
		b.WriteString(name)
		b.WriteByte(0)
		b.WriteString(config.entities[name])
	}
	return b.String()
}

func (e *Engine) report(raw *ParseResult) *ParseResult {
	out := *raw
	out.Diagnostics = e.policy.apply(raw.Diagnostics)
	return &out
}
