package parser

import (
	"regexp"
	"strings"

	"github.com/rfberaldo/namedstmt/binds"
)

type Parser struct {
	input     string
	bind      binds.Bind
	re        *regexp.Regexp
	output    strings.Builder
	names     []string
	positions map[string]int
	slots     []int
}

func (p *Parser) parse() (*Result, error) {
	group := p.re.SubexpIndex(identGroup)
	matches := p.re.FindAllStringSubmatchIndex(p.input, -1)

	p.positions = make(map[string]int, len(matches))
	p.slots = make([]int, 0, len(matches))
	p.output.Grow(len(p.input))

	// last is the end of the previous match, text between matches
	// is copied as is.
	last := 0
	for _, m := range matches {
		if m[2*group] < 0 {
			continue
		}

		start, end := m[0], m[1]
		name := p.input[m[2*group]:m[2*group+1]]

		ordinal := p.ordinal(name)
		p.slots = append(p.slots, ordinal)

		p.output.WriteString(p.input[last:start])
		p.output.WriteString(p.bind.Placeholder(ordinal, name))
		last = end
	}

	if len(p.names) == 0 {
		return nil, ErrNoMatch
	}
	p.output.WriteString(p.input[last:])

	return &Result{
		Query: p.output.String(),
		Names: p.names,
		Slots: p.slots,
	}, nil
}

// ordinal return the position of name, registering it if it's new.
func (p *Parser) ordinal(name string) int {
	if pos, ok := p.positions[name]; ok {
		return pos
	}

	pos := len(p.names)
	p.positions[name] = pos
	p.names = append(p.names, name)
	return pos
}
