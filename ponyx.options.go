package ponyx

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	ext        Ext
	maxDepth   int
	entities   map[string]string
	severities map[Code]Severity
	ignored    map[Code]bool
	strict     bool
	cache      *ParseCache
	storage    SourceStorage
	logger     *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		ext:        NewScriptExt(),
		maxDepth:   DefaultMaxDepth,
		entities:   map[string]string{},
		severities: map[Code]Severity{},
		ignored:    map[Code]bool{},
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithExt sets the embedding that parses host-language expressions.
// Default: PonyScript
func WithExt(ext Ext) Option {
	return func(c *engineConfig) {
		if ext != nil {
			c.ext = ext
		}
	}
}

// WithMaxDepth sets the maximum nesting depth of nodes and expressions.
// Use 0 for unlimited depth.
// Default: 256
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		if depth >= 0 {
			c.maxDepth = depth
		}
	}
}

// WithEntityTable adds named character references. Entries take
// precedence over the built-in table.
func WithEntityTable(entities map[string]string) Option {
	return func(c *engineConfig) {
		for name, value := range entities {
			c.entities[name] = value
		}
	}
}

// WithSeverityOverrides changes the reported severity of diagnostic codes
func WithSeverityOverrides(overrides map[Code]Severity) Option {
	return func(c *engineConfig) {
		for code, sev := range overrides {
			c.severities[code] = sev
		}
	}
}

// WithIgnoredCodes drops diagnostics with the given codes from results
func WithIgnoredCodes(codes ...Code) Option {
	return func(c *engineConfig) {
		for _, code := range codes {
			c.ignored[code] = true
		}
	}
}

// WithStrict makes warnings count as errors in validation and ParseStrict
func WithStrict(strict bool) Option {
	return func(c *engineConfig) {
		c.strict = strict
	}
}

// WithCache enables result caching for ParseStored and Parse
func WithCache(cache *ParseCache) Option {
	return func(c *engineConfig) {
		c.cache = cache
	}
}

// WithStorage sets the source storage used by ParseStored
func WithStorage(storage SourceStorage) Option {
	return func(c *engineConfig) {
		c.storage = storage
	}
}
