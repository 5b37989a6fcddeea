// Package namedstmt adds named bind variables to prepared statement engines
// that only bind by position.
//
// A command such as
//
//	UPDATE user SET name = :name WHERE id = :id
//
// is rewritten into the engine's positional form, e.g.
//
//	UPDATE user SET name = ? WHERE id = ?
//
// values are assigned by name in any order, and on [Statement.Execute]
// they are placed by position before the engine is called.
//
// Names are found lexically, quotes and comments are not understood:
// anything matching the delimiters is a bind name, including text
// inside string literals. Choose more specific [Delimiters] when needed.
package namedstmt

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/rfberaldo/namedstmt/binds"
	"github.com/rfberaldo/namedstmt/internal/parser"
)

// Statement is a command with named bind variables, driving one [Engine]
// handle. It's reusable: after every Execute all names must be assigned
// again.
//
// A Statement is not safe for concurrent use by multiple goroutines.
type Statement[R any] struct {
	engine  Engine[R]
	logger  Logger
	bind    binds.Bind
	command string
	query   string
	names   []string
	slots   []int
	entries map[string]*entry
}

type entry struct {
	position int
	assigned bool
	payload  Payload
}

// New parses command and returns a [Statement] executing on engine.
// New panics if engine is nil.
//
// The opts parameter can be set to nil for defaults.
//
// Example:
//
//	stmt, err := namedstmt.New(db.Exec(), "UPDATE user SET name = :name WHERE id = :id", nil)
func New[R any](engine Engine[R], command string, opts *Options) (*Statement[R], error) {
	if engine == nil {
		panic("namedstmt: engine cannot be nil")
	}

	cfg := newConfig(engine, opts)
	ctx := context.Background()

	res, err := parser.Parse(cfg.bind, command, cfg.delims.Left, cfg.delims.Right)
	if err != nil {
		attrs := []slog.Attr{
			slog.String("command", command),
			slog.String("left", cfg.delims.Left),
			slog.String("right", cfg.delims.Right),
		}

		if errors.Is(err, parser.ErrBadPattern) {
			return nil, logError(ctx, cfg.logger,
				"Delimiters don't compile, check if characters have been correctly escaped",
				&BindError{Kind: ErrConfiguration, Err: err},
				attrs...,
			)
		}

		return nil, logError(ctx, cfg.logger,
			"No bind variable found, check the delimiters and that at least one bind variable is used",
			&BindError{Kind: ErrNoVariables},
			attrs...,
		)
	}

	entries := make(map[string]*entry, len(res.Names))
	for pos, name := range res.Names {
		entries[name] = &entry{position: pos}
	}

	return &Statement[R]{
		engine:  engine,
		logger:  cfg.logger,
		bind:    cfg.bind,
		command: command,
		query:   res.Query,
		names:   res.Names,
		slots:   res.Slots,
		entries: entries,
	}, nil
}

// Command return the command as given to [New].
func (s *Statement[R]) Command() string { return s.command }

// Query return the rewritten command sent to the engine.
func (s *Statement[R]) Query() string { return s.query }

// Names return the distinct bind names by ordinal position.
func (s *Statement[R]) Names() []string { return slices.Clone(s.names) }

// Len return the number of distinct bind names.
func (s *Statement[R]) Len() int { return len(s.names) }

// Position return the ordinal position of name.
func (s *Statement[R]) Position(name string) (int, bool) {
	e, ok := s.entries[name]
	if !ok {
		return -1, false
	}
	return e.position, true
}

// Pending return the names without an assigned value since the last
// [Statement.Execute], in lexicographic order.
func (s *Statement[R]) Pending() []string {
	var pending []string
	for name, e := range s.entries {
		if !e.assigned {
			pending = append(pending, name)
		}
	}
	slices.Sort(pending)
	return pending
}

// Prepare prepares the rewritten query on the engine.
func (s *Statement[R]) Prepare(ctx context.Context) error {
	return s.engine.Prepare(ctx, s.query)
}

// Assign sets the payload of name, replacing any previous one.
// It returns an error matching [ErrUnknownName] if the command
// doesn't have name.
func (s *Statement[R]) Assign(name string, p Payload) error {
	e, ok := s.entries[name]
	if !ok {
		return logError(context.Background(), s.logger,
			"Bind variable not found, mostly a typo or incorrect delimiters",
			&BindError{Kind: ErrUnknownName, Names: []string{name}},
			slog.String("query", s.query),
		)
	}

	e.payload = p
	e.assigned = true
	return nil
}

// AssignValue is like [Statement.Assign], taking the most common
// payload fields individually. length and isNull may be nil.
func (s *Statement[R]) AssignValue(name string, typ FieldType, buffer any, length *uint64, isNull *bool) error {
	return s.Assign(name, Payload{
		Type:   typ,
		Buffer: buffer,
		Length: length,
		IsNull: isNull,
	})
}

// Execute binds the assigned payloads by position and executes the
// prepared query, returning the engine's result as is.
//
// It returns an error matching [ErrIncompleteBind] without calling the
// engine if any name has no value. Once the engine is called, all names
// are unassigned, whatever its outcome.
func (s *Statement[R]) Execute(ctx context.Context) (R, error) {
	var zero R

	if pending := s.Pending(); len(pending) > 0 {
		return zero, logError(ctx, s.logger,
			"Not all bind variables have been assigned",
			&BindError{Kind: ErrIncompleteBind, Names: pending},
			slog.String("query", s.query),
		)
	}

	b := Binding{
		Bind:   s.bind,
		Values: make([]Payload, len(s.names)),
		Names:  slices.Clone(s.names),
		Slots:  slices.Clone(s.slots),
	}
	for _, e := range s.entries {
		b.Values[e.position] = e.payload
	}

	res, err := s.engine.BindExecute(ctx, b)

	for _, e := range s.entries {
		e.assigned = false
	}

	return res, err
}
