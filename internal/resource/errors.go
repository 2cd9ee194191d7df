package resource

import (
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced by a Resource operation.
type Kind int

const (
	// KindOther is the catch-all for I/O failures during a transfer.
	KindOther Kind = iota
	// KindInvalidArgument covers bad modes, calling a method the
	// current mode does not support, and malformed URLs.
	KindInvalidArgument
	// KindNotFound covers missing local files.
	KindNotFound
	// KindPermission covers unreadable or unwritable targets.
	KindPermission
	// KindConnectivity covers unreachable URLs, 404 responses and
	// timeouts.
	KindConnectivity
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindConnectivity:
		return "connectivity error"
	default:
		return "I/O error"
	}
}

// Error is the error type returned by all Resource operations.
type Error struct {
	Kind   Kind
	Op     string // the operation that failed, e.g. "read", "fetch"
	Target string // the path or URL the operation was acting on
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %q: %s", e.Op, e.Target, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindOther for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

func errf(kind Kind, op, target, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Target: target, Err: fmt.Errorf(format, args...)}
}

func wrap(kind Kind, op, target string, err error) *Error {
	return &Error{Kind: kind, Op: op, Target: target, Err: err}
}
