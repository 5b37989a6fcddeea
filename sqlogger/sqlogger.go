// Package sqlogger logs the calls a named statement makes to its engine.
package sqlogger

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rfberaldo/namedstmt"
	"github.com/rfberaldo/namedstmt/binds"
)

const (
	stmtKey  = "stmt_id"
	queryKey = "query"
	namesKey = "names"
	argsKey  = "args"
)

// Options holds logging options to be used in [Wrap].
// A zero Options consists entirely of default values.
type Options struct {
	// IdGenerator is a function that returns a string to be used as id.
	// By default it's a 8-length random string.
	IdGenerator func() string
}

// Wrap returns an engine that calls engine and logs every call to logger:
// Prepare at debug level, BindExecute at info level, and any failure
// at error level.
//
// The logger argument is usually an instance of [slog.Logger].
//
// If opts is nil, the default options are used.
//
// Example:
//
//	stmt, err := namedstmt.New(sqlogger.Wrap(db.Exec(), slog.Default(), nil), command, nil)
func Wrap[R any](engine namedstmt.Engine[R], logger namedstmt.Logger, opts *Options) namedstmt.Engine[R] {
	l := &sqlogger{logger, randomId}
	if opts != nil && opts.IdGenerator != nil {
		l.idGenerator = opts.IdGenerator
	}

	return &engineLogger[R]{
		engine: engine,
		id:     l.idGenerator(),
		logger: l,
	}
}

type sqlogger struct {
	logger      namedstmt.Logger
	idGenerator func() string
}

func (l *sqlogger) log(
	ctx context.Context,
	level slog.Level,
	msg string,
	start time.Time,
	err error,
	attrs ...slog.Attr,
) {
	l.logger.LogAttrs(ctx, level, msg, buildAttrs(start, err, attrs...)...)
}

func buildAttrs(start time.Time, err error, attrs ...slog.Attr) []slog.Attr {
	_attrs := make([]slog.Attr, 0, len(attrs)+2)
	if err != nil {
		_attrs = append(_attrs, slog.Any("error", err))
	}
	_attrs = append(_attrs, attrs...)
	_attrs = append(_attrs, slog.Duration("duration", time.Since(start)))
	return _attrs
}

// engineLogger implements
// [namedstmt.Engine]
// [namedstmt.Binder]
type engineLogger[R any] struct {
	engine namedstmt.Engine[R]
	id     string
	query  string
	logger *sqlogger
}

// Bind implements [namedstmt.Binder], returning [binds.Unknown]
// if the wrapped engine doesn't implement it.
func (e *engineLogger[R]) Bind() binds.Bind {
	if b, ok := e.engine.(namedstmt.Binder); ok {
		return b.Bind()
	}
	return binds.Unknown
}

// Prepare implements [namedstmt.Engine]
func (e *engineLogger[R]) Prepare(ctx context.Context, query string) error {
	start := time.Now()
	lvl := slog.LevelDebug
	e.query = query

	err := e.engine.Prepare(ctx, query)
	if err != nil {
		lvl = slog.LevelError
	}

	e.logger.log(ctx, lvl, "Prepare", start, err, e.logAttrs()...)

	return err
}

// BindExecute implements [namedstmt.Engine]
func (e *engineLogger[R]) BindExecute(ctx context.Context, b namedstmt.Binding) (R, error) {
	start := time.Now()
	lvl := slog.LevelInfo
	attrs := append(e.logAttrs(),
		slog.Any(namesKey, b.Names),
		slog.Any(argsKey, valuesFromBinding(b)),
	)

	res, err := e.engine.BindExecute(ctx, b)
	if err != nil {
		lvl = slog.LevelError
	}

	e.logger.log(ctx, lvl, "BindExecute", start, err, attrs...)

	return res, err
}

func (e *engineLogger[R]) logAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String(stmtKey, e.id),
		slog.String(queryKey, e.query),
	}
}

// valuesFromBinding resolves the payloads by ordinal position, a payload
// that can't be resolved is logged as its error text.
func valuesFromBinding(b namedstmt.Binding) []any {
	values := make([]any, len(b.Values))

	for k, p := range b.Values {
		v, err := p.Value()
		if err != nil {
			values[k] = err.Error()
			continue
		}
		values[k] = v
	}

	return values
}

// randomId generates a string with 8 random characters.
func randomId() string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 8)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}
