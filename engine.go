package namedstmt

import (
	"context"
	"database/sql"

	"github.com/rfberaldo/namedstmt/binds"
)

// Engine is the prepared statement handle a [Statement] drives, it only
// understands positional placeholders.
//
// Its results and errors are returned to the caller unmodified.
type Engine[R any] interface {
	// Prepare prepares the rewritten query.
	Prepare(ctx context.Context, query string) error

	// BindExecute binds the positional values and executes the
	// prepared query.
	BindExecute(ctx context.Context, b Binding) (R, error)
}

// Binder is implemented by engines that know their placeholder style,
// see [Options.Bind].
type Binder interface {
	Bind() binds.Bind
}

// Binding is the positional form of the named values of a statement,
// built fresh for every [Statement.Execute].
type Binding struct {
	// Bind is the placeholder style the query was rewritten with.
	Bind binds.Bind

	// Values holds the payload of each name, indexed by ordinal position.
	Values []Payload

	// Names holds each name, indexed by ordinal position.
	Names []string

	// Slots holds the ordinal position of every placeholder in the
	// query, in text order.
	Slots []int
}

// Len return the number of positional values.
func (b Binding) Len() int { return len(b.Values) }

// Args return the values as [database/sql] arguments for b.Bind:
// one per placeholder for [binds.Question], since a repeated name writes
// one '?' per occurrence; named args for [binds.Colon]; otherwise one per
// ordinal position.
func (b Binding) Args() []any {
	if b.Bind.PerOccurrence() {
		args := make([]any, len(b.Slots))
		for i, pos := range b.Slots {
			args[i] = b.Values[pos]
		}
		return args
	}

	args := make([]any, len(b.Values))
	for i, v := range b.Values {
		if b.Bind == binds.Colon {
			args[i] = sql.Named(b.Names[i], v)
			continue
		}
		args[i] = v
	}
	return args
}
