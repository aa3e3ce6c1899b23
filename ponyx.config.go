package ponyx

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Configuration file extensions
const (
	ConfigExtYAML = ".yaml"
	ConfigExtYML  = ".yml"
	ConfigExtTOML = ".toml"

	DefaultConfigYAML = "ponyx.yaml"
	DefaultConfigTOML = "ponyx.toml"
)

// Config is the content of a ponyx.yaml or ponyx.toml file.
type Config struct {
	MaxDepth    *int              `yaml:"max_depth" toml:"max_depth"`
	Ext         string            `yaml:"ext" toml:"ext"`
	Entities    map[string]string `yaml:"entities" toml:"entities"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" toml:"diagnostics"`
	Cache       CacheConfig       `yaml:"cache" toml:"cache"`
	Storage     StorageConfig     `yaml:"storage" toml:"storage"`

	path string
}

// DiagnosticsConfig is the reporting policy section
type DiagnosticsConfig struct {
	Ignore   []string          `yaml:"ignore" toml:"ignore"`
	Severity map[string]string `yaml:"severity" toml:"severity"`
	Strict   bool              `yaml:"strict" toml:"strict"`
}

// CacheConfig is the parse cache section
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" toml:"enabled"`
	TTL        string `yaml:"ttl" toml:"ttl"`
	MaxEntries int    `yaml:"max_entries" toml:"max_entries"`
}

// StorageConfig selects a storage driver
type StorageConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// LoadConfig reads a configuration file. The format is chosen by extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigRead, path, err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigDecode, path, err)
	}
	cfg.path = path
	return cfg, nil
}

// ParseConfig decodes configuration data in the format named by ext
func ParseConfig(data []byte, ext string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(ext) {
	case ConfigExtYAML, ConfigExtYML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case ConfigExtTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, NewConfigValueError(ErrMsgConfigFormat, ext)
	}
	return cfg, nil
}

// FindConfig looks for ponyx.yaml then ponyx.toml in dir. It returns ""
// when neither exists.
func FindConfig(dir string) string {
	for _, name := range []string{DefaultConfigYAML, DefaultConfigTOML} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Options converts the configuration into engine options. Storage is
// opened here when a driver is configured; the caller owns closing it.
func (c *Config) Options(logger *zap.Logger) ([]Option, error) {
	opts := []Option{WithLogger(logger)}

	if c.MaxDepth != nil {
		if *c.MaxDepth < 0 {
			return nil, NewConfigValueError(ErrMsgConfigMaxDepth, "")
		}
		opts = append(opts, WithMaxDepth(*c.MaxDepth))
	}

	if c.Ext != "" {
		ext, ok := ExtByID(c.Ext)
		if !ok {
			return nil, NewConfigValueError(ErrMsgConfigExt, c.Ext)
		}
		opts = append(opts, WithExt(ext))
	}

	if len(c.Entities) > 0 {
		opts = append(opts, WithEntityTable(c.Entities))
	}

	if len(c.Diagnostics.Ignore) > 0 {
		codes := make([]Code, len(c.Diagnostics.Ignore))
		for i, code := range c.Diagnostics.Ignore {
			codes[i] = Code(strings.ToUpper(code))
		}
		opts = append(opts, WithIgnoredCodes(codes...))
	}

	if len(c.Diagnostics.Severity) > 0 {
		overrides := make(map[Code]Severity, len(c.Diagnostics.Severity))
		for code, name := range c.Diagnostics.Severity {
			sev, ok := ParseSeverity(name)
			if !ok {
				return nil, NewConfigValueError(ErrMsgConfigSeverity, name)
			}
			overrides[Code(strings.ToUpper(code))] = sev
		}
		opts = append(opts, WithSeverityOverrides(overrides))
	}

	if c.Diagnostics.Strict {
		opts = append(opts, WithStrict(true))
	}

	if c.Cache.Enabled {
		cacheCfg := DefaultParseCacheConfig()
		if c.Cache.TTL != "" {
			ttl, err := time.ParseDuration(c.Cache.TTL)
			if err != nil || ttl <= 0 {
				return nil, NewConfigValueError(ErrMsgConfigDuration, c.Cache.TTL)
			}
			cacheCfg.TTL = ttl
		}
		if c.Cache.MaxEntries > 0 {
			cacheCfg.MaxEntries = c.Cache.MaxEntries
		}
		opts = append(opts, WithCache(NewParseCache(cacheCfg, logger)))
	}

	if c.Storage.Driver != "" {
		storage, err := OpenStorage(c.Storage.Driver, c.Storage.DSN)
		if err != nil {
			return nil, NewStorageError(ErrMsgStorageIO, err)
		}
		opts = append(opts, WithStorage(storage))
	}

	if logger != nil {
		logger.Debug(LogMsgConfigLoaded, zap.String(LogFieldPath, c.path))
	}
	return opts, nil
}

// ExtByID returns a fresh instance of a built-in embedding
func ExtByID(id string) (Ext, bool) {
	switch id {
	case ExtIDScript:
		return NewScriptExt(), true
	case ExtIDNop:
		return NopExt{}, true
	}
	return nil, false
}
