package heatmap

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of a heatmap run.
type Kind int

const (
	KindParse  Kind = iota + 1 // malformed input record
	KindConfig                 // invalid or incomplete configuration
	KindIO                     // file or stream failure
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindConfig:
		return "config error"
	case KindIO:
		return "io error"
	default:
		return "unknown error"
	}
}

// Error is returned for every failure that aborts a run.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseError wraps err as a KindParse failure.
func ParseError(op string, err error) error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}

// ConfigError builds a KindConfig failure from a message.
func ConfigError(format string, args ...any) error {
	return &Error{Kind: KindConfig, Err: fmt.Errorf(format, args...)}
}

// IOError wraps err as a KindIO failure.
func IOError(op string, err error) error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
