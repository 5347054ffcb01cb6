package wireup

import "github.com/pkg/errors"

// Kind is one of the four error kinds from spec.md section 7. Assertion
// violations are not a Kind: they panic via cmn/debug, they are never
// returned.
type Kind int

const (
	KindUnreachable Kind = iota
	KindUnsupported
	KindInvalidParam
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "UNREACHABLE"
	case KindUnsupported:
		return "UNSUPPORTED"
	case KindInvalidParam:
		return "INVALID_PARAM"
	default:
		return "UNKNOWN"
	}
}

// Error wraps a Kind with the pass/criteria title and a human-readable
// reason, using github.com/pkg/errors so callers can errors.Cause() down
// to whatever underlying failure (if any) produced it.
type Error struct {
	Kind   Kind
	Title  string
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.Title == "" {
		return e.Kind.String() + ": " + e.Reason
	}
	return e.Kind.String() + " (" + e.Title + "): " + e.Reason
}

func (e *Error) Unwrap() error { return e.cause }

func newUnreachable(title, reason string) error {
	return errors.WithStack(&Error{Kind: KindUnreachable, Title: title, Reason: reason})
}

func newUnsupported(title, reason string) error {
	return errors.WithStack(&Error{Kind: KindUnsupported, Title: title, Reason: reason})
}

func newInvalidParam(reason string) error {
	return errors.WithStack(&Error{Kind: KindInvalidParam, Reason: reason})
}

// AsKind unwraps err (through any github.com/pkg/errors wrapping) to find
// the Kind it carries. ok is false if err is not a wireup *Error.
func AsKind(err error) (Kind, bool) {
	type causer interface{ Cause() error }
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return 0, false
}
