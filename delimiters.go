package namedstmt

import (
	"sync/atomic"

	"github.com/rfberaldo/namedstmt/internal/parser"
)

// Delimiters are the regular expressions surrounding a bind name,
// the name itself always matches `\w+`.
//
// For example, Left `:\{` and Right `\}` recognise `:{fooBar}`.
// Each delimiter is matched as a whole, so alternations like `:|@` are
// allowed. The capture group name "bindname" is reserved for the name,
// a delimiter defining it fails with [ErrConfiguration].
type Delimiters struct {
	Left  string
	Right string
}

// Validate compiles the delimiters, returning an error matching
// [ErrConfiguration] if they don't form a valid expression.
func (d Delimiters) Validate() error {
	if _, err := parser.Compile(d.Left, d.Right); err != nil {
		return &BindError{Kind: ErrConfiguration, Err: err}
	}
	return nil
}

var defaultDelimiters atomic.Pointer[Delimiters]

func init() {
	ResetDelimiters()
}

// SetDelimiters replaces the process-wide default delimiters, used by every
// [New] call whose [Options] don't carry their own. Statements already
// constructed are unaffected.
//
// No validation happens here, a bad pattern is reported by the next [New].
func SetDelimiters(left, right string) {
	defaultDelimiters.Store(&Delimiters{Left: left, Right: right})
}

// ResetDelimiters restores the process-wide default delimiters to
// a colon on the left and nothing on the right, e.g. `:name`.
func ResetDelimiters() {
	SetDelimiters(":", "")
}

// DefaultDelimiters return the current process-wide default delimiters.
func DefaultDelimiters() Delimiters {
	return *defaultDelimiters.Load()
}
