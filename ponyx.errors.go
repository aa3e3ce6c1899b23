package ponyx

import (
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants for operational errors. Syntax problems are
// reported as diagnostics, not as errors.
const (
	ErrMsgParseFailed       = "source has syntax errors"
	ErrMsgParseCancelled    = "parse cancelled"
	ErrMsgConfigRead        = "failed to read configuration file"
	ErrMsgConfigDecode      = "failed to decode configuration file"
	ErrMsgConfigFormat      = "unsupported configuration file extension"
	ErrMsgConfigExt         = "unknown embedding"
	ErrMsgConfigSeverity    = "unknown severity name"
	ErrMsgConfigDuration    = "invalid cache ttl"
	ErrMsgConfigMaxDepth    = "max depth must not be negative"
	ErrMsgSourceNotFound    = "source not found"
	ErrMsgNoStorage         = "engine has no source storage configured"
	ErrMsgInvalidSourceName = "source name cannot be empty"
)

// Error code constants for categorization
const (
	ErrCodeParse   = "PONYX_PARSE"
	ErrCodeConfig  = "PONYX_CONFIG"
	ErrCodeStorage = "PONYX_STORAGE"
	ErrCodeEngine  = "PONYX_ENGINE"
)

// NewParseError reports a source that parsed with error diagnostics. The
// first error provides the code and position metadata.
func NewParseError(src *Source, diags Diagnostics) error {
	err := cuserr.NewValidationError(ErrCodeParse, ErrMsgParseFailed).
		WithMetadata(MetaKeyDiagnostics, strconv.Itoa(len(diags)))
	if src != nil {
		err = err.WithMetadata(MetaKeySource, string(src.ID))
	}
	errs := diags.Errors()
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	err = err.WithMetadata(MetaKeyCode, first.Code().String()).
		WithMetadata(MetaKeyOffset, strconv.Itoa(first.Span().Start))
	if src != nil {
		pos := src.Position(first.Span().Start)
		err = err.
			WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column))
	}
	return err
}

// NewCancelledError wraps a context error seen before parsing started
func NewCancelledError(id SourceID, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeEngine, ErrMsgParseCancelled).
		WithMetadata(MetaKeySource, string(id))
}

// NewConfigError creates a configuration error for the given file
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}

// NewConfigValueError reports an invalid configuration value
func NewConfigValueError(msg, value string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyValue, value)
}

// NewSourceNotFoundError creates an error for a missing stored source
func NewSourceNotFoundError(name string) error {
	return cuserr.NewNotFoundError(name, ErrMsgSourceNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewNoStorageError reports a storage operation on an engine without one
func NewNoStorageError() error {
	return cuserr.NewValidationError(ErrCodeEngine, ErrMsgNoStorage)
}

// NewStorageError wraps a storage failure
func NewStorageError(msg string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeStorage, msg)
}
