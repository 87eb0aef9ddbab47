package mef

import (
	"errors"
	"fmt"
	"strings"
)

// Kind enumerates the error taxonomy rows from the SCRAM core error design.
type Kind int

const (
	// KindIOError marks a failure raised by the parser or reporter doing I/O.
	KindIOError Kind = iota
	// KindInvalidArgument marks an ill-typed value at an API boundary.
	KindInvalidArgument
	// KindLogicError marks an internal precondition violation (a bug).
	KindLogicError
	// KindIllegalOperation marks an operation invalid for the current variant/state.
	KindIllegalOperation
	// KindSettingsError marks inconsistent configuration.
	KindSettingsError
	// KindValidationError marks a model-level rule violation.
	KindValidationError
	// KindRedefinitionError marks a duplicate (scope, id) registration.
	KindRedefinitionError
	// KindDuplicateArgumentError marks the same event repeated in one formula.
	KindDuplicateArgumentError
	// KindUndefinedElement marks a reference that resolves to nothing.
	KindUndefinedElement
	// KindCycleError marks a cycle in the gate or parameter graph.
	KindCycleError
)

func (k Kind) String() string {
	switch k {
	case KindIOError:
		return "IOError"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindLogicError:
		return "LogicError"
	case KindIllegalOperation:
		return "IllegalOperation"
	case KindSettingsError:
		return "SettingsError"
	case KindValidationError:
		return "ValidationError"
	case KindRedefinitionError:
		return "RedefinitionError"
	case KindDuplicateArgumentError:
		return "DuplicateArgumentError"
	case KindUndefinedElement:
		return "UndefinedElement"
	case KindCycleError:
		return "CycleError"
	default:
		return "UnknownError"
	}
}

// Location is the (file, line) source annotation attached to elements and
// errors by the MEF-XML loader. It is zero-valued for programmatically built
// models.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// Error is the single error type used throughout the core. Every taxonomy
// row in SPEC_FULL.md §7 is a Kind value rather than a distinct Go type, since
// all rows need the same (kind, message, location, function) shape and a
// bare sentinel error cannot carry the location or cycle path.
type Error struct {
	Kind     Kind
	Message  string
	Location Location
	Func     string
	// Path carries the offending cycle for CycleError, in traversal order.
	Path []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Path) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Path, " -> "))
		b.WriteString("]")
	}
	if loc := e.Location.String(); loc != "" {
		b.WriteString(" (")
		b.WriteString(loc)
		if e.Func != "" {
			b.WriteString(" in ")
			b.WriteString(e.Func)
		}
		b.WriteString(")")
	} else if e.Func != "" {
		b.WriteString(" (in ")
		b.WriteString(e.Func)
		b.WriteString(")")
	}
	return b.String()
}

// Is makes errors.Is match by kind: a target that is a *Error matches when
// its Kind equals e's, e.g. errors.Is(err, &mef.Error{Kind: mef.KindValidationError}).
// IsKind is the shorter form of the same check.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

func newError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// NewIOError builds an IOError.
func NewIOError(format string, args ...any) *Error { return newError(KindIOError, format, args...) }

// NewInvalidArgument builds an InvalidArgument error.
func NewInvalidArgument(format string, args ...any) *Error {
	return newError(KindInvalidArgument, format, args...)
}

// NewLogicError builds a LogicError; these represent internal bugs and are
// never expected to be user-recoverable.
func NewLogicError(format string, args ...any) *Error {
	return newError(KindLogicError, format, args...)
}

// NewIllegalOperation builds an IllegalOperation error.
func NewIllegalOperation(format string, args ...any) *Error {
	return newError(KindIllegalOperation, format, args...)
}

// NewSettingsError builds a SettingsError.
func NewSettingsError(format string, args ...any) *Error {
	return newError(KindSettingsError, format, args...)
}

// NewValidationError builds a ValidationError.
func NewValidationError(format string, args ...any) *Error {
	return newError(KindValidationError, format, args...)
}

// NewRedefinitionError builds a RedefinitionError for a duplicate (scope, id).
func NewRedefinitionError(id string) *Error {
	return newError(KindRedefinitionError, "redefinition of %q in its scope", id)
}

// NewDuplicateArgumentError builds a DuplicateArgumentError for a formula
// that references the same event twice.
func NewDuplicateArgumentError(id string) *Error {
	return newError(KindDuplicateArgumentError, "duplicate argument %q in formula", id)
}

// NewUndefinedElement builds an UndefinedElement error.
func NewUndefinedElement(id string) *Error {
	return newError(KindUndefinedElement, "undefined element %q", id)
}

// NewCycleError builds a CycleError naming the full cycle path.
func NewCycleError(path []string) *Error {
	e := newError(KindCycleError, "cycle detected")
	e.Path = path
	return e
}

// WithLocation returns a copy of e annotated with the given source location.
func (e *Error) WithLocation(loc Location) *Error {
	c := *e
	c.Location = loc
	return &c
}

// WithFunc returns a copy of e annotated with the function context.
func (e *Error) WithFunc(fn string) *Error {
	c := *e
	c.Func = fn
	return &c
}
