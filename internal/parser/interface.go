// This file contains the exported entry points for invoking the parser.

package parser

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/rfberaldo/namedstmt/binds"
)

var (
	// ErrBadPattern is returned when the delimiters don't compile into
	// a valid regular expression.
	ErrBadPattern = errors.New("bad delimiter pattern")

	// ErrNoMatch is returned when the input has no bind variable.
	ErrNoMatch = errors.New("no bind variable found")
)

// identGroup is the name of the capture group holding the bind name,
// a named group so delimiters can carry groups of their own.
// Delimiters can't define a group with this name.
const identGroup = "bindname"

// Result is the outcome of parsing a command template.
type Result struct {
	// Query is the input with every marked name replaced by a placeholder.
	Query string

	// Names holds each distinct name, indexed by its ordinal position.
	Names []string

	// Slots holds the ordinal position of every placeholder in Query,
	// in text order, so len(Slots) >= len(Names).
	Slots []int
}

// Compile builds the matching pattern (?:left)(\w+)(?:right).
// Each delimiter is grouped on its own, so an alternation like `:|@`
// never escapes into the name.
func Compile(left, right string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?:` + left + `)(?P<` + identGroup + `>\w+)(?:` + right + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPattern, err)
	}
	return re, nil
}

// Parse scans input for names surrounded by the left and right patterns,
// and return the rewritten query using bind placeholders.
func Parse(bind binds.Bind, input, left, right string) (*Result, error) {
	re, err := Compile(left, right)
	if err != nil {
		return nil, err
	}

	p := &Parser{bind: bind, input: input, re: re}
	return p.parse()
}

// ParseIdents is like [Parse], but only return the distinct names
// in order of first appearance.
func ParseIdents(input, left, right string) ([]string, error) {
	res, err := Parse(binds.Question, input, left, right)
	if err != nil {
		return nil, err
	}
	return res.Names, nil
}
