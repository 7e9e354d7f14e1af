// Package render composes text output from a tree of nodes that each
// produce a list of lines.
package render

import "strings"

// Node is anything that renders to lines.
type Node interface {
	Lines() []string
}

// Render joins the lines of n with newlines.
func Render(n Node) string {
	return strings.Join(n.Lines(), "\n")
}

// Tab is the indentation unit.
const Tab = "\t"

// Text is a single line.
type Text string

func (t Text) Lines() []string { return []string{string(t)} }

// Lines renders the given lines verbatim.
func Lines(lines ...string) Node { return lineList(lines) }

type lineList []string

func (l lineList) Lines() []string { return append([]string(nil), l...) }

// BlankLine renders n empty lines.
type BlankLine int

func (b BlankLine) Lines() []string {
	if b <= 0 {
		return nil
	}
	return make([]string, int(b))
}

// Null renders nothing.
var Null Node = nullNode{}

type nullNode struct{}

func (nullNode) Lines() []string { return nil }

// Indented prefixes every non-empty line of Child with Level tabs.
type Indented struct {
	Child Node
	Level int
}

// Indent wraps n one level deep.
func Indent(n Node) Indented { return Indented{Child: n, Level: 1} }

func (in Indented) Lines() []string {
	lines := in.Child.Lines()
	if in.Level <= 0 {
		return lines
	}
	prefix := strings.Repeat(Tab, in.Level)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = prefix + line
	}
	return out
}
