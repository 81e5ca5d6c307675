package config

import (
	"errors"
	"fmt"
)

// Resolution errors. [Error.Kind] holds one of these, so callers match them
// with [errors.Is].
var (
	// ErrReadConfig indicates that the config file exists but cannot be read.
	ErrReadConfig = errors.New("config file cannot be read")
	// ErrParseConfig indicates that the config file is not a well-formed
	// TOML document. The parser diagnostic is kept in [Error.Err].
	ErrParseConfig = errors.New("config file is not a well-formed toml document")
	// ErrValueOutOfRange indicates an integer value that does not fit the
	// width of its target field.
	ErrValueOutOfRange = errors.New("config value out of range")
)

// Validation errors returned by [ServerConfig.validate] for a merged config
// that cannot be used at startup.
var (
	// ErrInvalidAddress indicates an empty or malformed bind address.
	ErrInvalidAddress = errors.New("invalid address configuration")
	// ErrInvalidDatabase indicates an empty database locator.
	ErrInvalidDatabase = errors.New("invalid database configuration")
	// ErrInvalidProvisionConfigs indicates an unknown provision mode or a
	// non-positive provision timeout.
	ErrInvalidProvisionConfigs = errors.New("invalid provision configuration")
)

// Error describes a configuration resolution failure.
type Error struct {
	// Kind is ErrReadConfig, ErrParseConfig or ErrValueOutOfRange.
	Kind error
	// Path is the config file involved.
	Path string
	// Key is the offending key, set for ErrValueOutOfRange.
	Key string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s: key %q", msg, e.Key)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
