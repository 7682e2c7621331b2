package brume

import (
	"errors"
	"fmt"
)

// ErrPoolExhausted signals that a spawn was skipped because no free slot
// was available. It is reported, never silently wrapped to slot 0.
var ErrPoolExhausted = errors.New("particle pool exhausted, spawn skipped")

// ConfigError reports an invalid or unusable configuration value.
type ConfigError struct {
	Option string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %q: %s", e.Option, e.Value, e.Reason)
}

// ObjError reports a malformed OBJ file, carrying the path and the
// one-based line number of the offending directive.
type ObjError struct {
	Path string
	Line int
	Err  error
}

func (e *ObjError) Error() string {
	return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ObjError) Unwrap() error {
	return e.Err
}
