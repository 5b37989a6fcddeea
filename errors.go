package namedstmt

import (
	"errors"
	"strings"
)

var (
	// ErrConfiguration means the delimiters don't compile into a valid
	// expression, fix them and create the statement again.
	ErrConfiguration = errors.New("namedstmt: invalid delimiter configuration")

	// ErrNoVariables means the command has no bind name surrounded by the
	// delimiters, every statement must bind at least one name.
	ErrNoVariables = errors.New("namedstmt: no bind variables found")

	// ErrUnknownName means a value was assigned to a name the command
	// doesn't have, mostly a typo.
	ErrUnknownName = errors.New("namedstmt: unknown bind name")

	// ErrIncompleteBind means Execute was called while some names had no
	// value assigned, the engine was not called.
	ErrIncompleteBind = errors.New("namedstmt: incomplete bind")
)

// BindError is returned by every failing statement operation.
// It matches its Kind with [errors.Is], and its cause, if any.
type BindError struct {
	// Kind is one of [ErrConfiguration], [ErrNoVariables],
	// [ErrUnknownName] or [ErrIncompleteBind].
	Kind error

	// Names are the offending bind names: the unknown name, or the
	// unassigned names in lexicographic order.
	Names []string

	// Err is the underlying cause, e.g. the expression compile error.
	Err error
}

func (e *BindError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())

	if len(e.Names) > 0 {
		sb.WriteString(": [")
		sb.WriteString(strings.Join(e.Names, ", "))
		sb.WriteByte(']')
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *BindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
