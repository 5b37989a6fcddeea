package namedstmt

import (
	"cmp"
	"log/slog"

	"github.com/rfberaldo/namedstmt/binds"
)

// Options are optional configs for [New].
// A zero Options consists entirely of default values.
type Options struct {
	// Delimiters recognise bind names in the command.
	// If nil, [DefaultDelimiters] is read when the statement is created.
	Delimiters *Delimiters

	// Bind is the placeholder written in place of each bind name.
	// If zero, the engine's bind is used when it implements [Binder],
	// otherwise [binds.Question].
	Bind binds.Bind

	// Logger receives diagnostics before an error is returned.
	// If nil, [slog.Default] is used.
	Logger Logger
}

// config contains the resolved options of a statement.
type config struct {
	delims Delimiters
	bind   binds.Bind
	logger Logger
}

func newConfig(engine any, opts *Options) *config {
	cfg := &config{}
	if opts == nil {
		opts = &Options{}
	}

	if opts.Delimiters != nil {
		cfg.delims = *opts.Delimiters
	} else {
		cfg.delims = DefaultDelimiters()
	}

	var engineBind binds.Bind
	if b, ok := engine.(Binder); ok {
		engineBind = b.Bind()
	}
	cfg.bind = cmp.Or(opts.Bind, engineBind, binds.Question)

	cfg.logger = opts.Logger
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return cfg
}
