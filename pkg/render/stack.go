package render

import "strings"

// Stack renders children one after another. Inner is inserted between
// children, Outer before the first and after the last. A nil margin is
// omitted.
//
//	inner=nil, outer=nil -> c0, c1, c2
//	inner=X,   outer=nil -> c0, X, c1, X, c2
//	inner=nil, outer=Y   -> Y, c0, c1, c2, Y
//	inner=X,   outer=Y   -> Y, c0, X, c1, X, c2, Y
type Stack struct {
	Children []Node
	Inner    Node
	Outer    Node
}

// NewStack returns a margin-less stack.
func NewStack(children ...Node) *Stack {
	return &Stack{Children: children}
}

// Append adds children and returns the stack for chaining.
func (s *Stack) Append(children ...Node) *Stack {
	s.Children = append(s.Children, children...)
	return s
}

// Len returns the number of children.
func (s *Stack) Len() int { return len(s.Children) }

// Repeat returns a copy whose children are repeated n times.
func (s *Stack) Repeat(n int) *Stack {
	out := &Stack{Inner: s.Inner, Outer: s.Outer}
	for i := 0; i < n; i++ {
		out.Children = append(out.Children, s.Children...)
	}
	return out
}

func (s *Stack) Lines() []string {
	return withMargins(s.Inner, s.Outer, s.Children)
}

// withMargins lays out nodes with inner/outer margins. Nil nodes are
// skipped; an empty sequence renders nothing.
func withMargins(inner, outer Node, nodes []Node) []string {
	var out []string
	for _, n := range marginSeq(inner, outer, nodes) {
		out = append(out, n.Lines()...)
	}
	return out
}

func marginSeq(inner, outer Node, nodes []Node) []Node {
	seq := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			seq = append(seq, n)
		}
	}
	if len(seq) == 0 {
		return nil
	}

	out := make([]Node, 0, 2*len(seq)+1)
	if outer != nil {
		out = append(out, outer)
	}
	for i, n := range seq {
		if i > 0 && inner != nil {
			out = append(out, inner)
		}
		out = append(out, n)
	}
	if outer != nil {
		out = append(out, outer)
	}
	return out
}

// Block renders Begin, the indented children, then End. Begin and End may
// be nil. Margins apply around and between all of them.
type Block struct {
	Begin    Node
	End      Node
	Children []Node
	Inner    Node
	Outer    Node
}

// Append adds children and returns the block for chaining.
func (b *Block) Append(children ...Node) *Block {
	b.Children = append(b.Children, children...)
	return b
}

func (b *Block) Lines() []string {
	nodes := make([]Node, 0, len(b.Children)+2)
	nodes = append(nodes, b.Begin)
	for _, c := range b.Children {
		nodes = append(nodes, Indent(c))
	}
	nodes = append(nodes, b.End)
	return withMargins(b.Inner, b.Outer, nodes)
}

// WordAligned pads the words of each child so columns line up. Each child is
// joined into one row and split on whitespace, so a blank margin becomes an
// empty row; Limit caps the number of
// aligned columns (0 means no limit).
type WordAligned struct {
	Children []Node
	Inner    Node
	Outer    Node
	Limit    int
}

func (w *WordAligned) Lines() []string {
	var rows [][]string
	var widths []int

	for _, n := range marginSeq(w.Inner, w.Outer, w.Children) {
		words := strings.Fields(strings.Join(n.Lines(), " "))
		rows = append(rows, words)
		for i, word := range words {
			if w.Limit > 0 && i >= w.Limit {
				break
			}
			if i == len(widths) {
				widths = append(widths, len(word))
			} else if len(word) > widths[i] {
				widths[i] = len(word)
			}
		}
	}
	if len(rows) == 0 {
		return nil
	}

	out := make([]string, len(rows))
	for r, words := range rows {
		n := len(words)
		if n > len(widths) {
			n = len(widths)
		}
		padded := make([]string, len(words))
		copy(padded, words)
		for i := 0; i < n-1; i++ {
			if pad := widths[i] - len(padded[i]); pad > 0 {
				padded[i] += strings.Repeat(" ", pad)
			}
		}
		out[r] = strings.Join(padded, " ")
	}
	return out
}
