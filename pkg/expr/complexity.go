package expr

// NodeCount counts every node, leaves included.
func (c *Const) NodeCount() int     { return 1 }
func (n *Name) NodeCount() int      { return 1 }
func (n *Null) NodeCount() int      { return 1 }
func (u *UnaryNode) NodeCount() int { return 1 + u.Child.NodeCount() }
func (b *BinaryNode) NodeCount() int {
	return 1 + b.Left.NodeCount() + b.Right.NodeCount()
}

func (c *Const) Depth() int     { return 1 }
func (n *Name) Depth() int      { return 1 }
func (n *Null) Depth() int      { return 1 }
func (u *UnaryNode) Depth() int { return 1 + u.Child.Depth() }
func (b *BinaryNode) Depth() int {
	ld := b.Left.Depth()
	rd := b.Right.Depth()
	if ld > rd {
		return 1 + ld
	}
	return 1 + rd
}

// Terms returns the number of top-level terms of a logic or additive chain;
// any other node counts as a single term.
func Terms(e Expr) int {
	b, ok := e.(*BinaryNode)
	if !ok {
		return 1
	}
	switch b.Op {
	case OpAnd, OpOr:
		return len(flattenLogic(b.Op, b.Left, b.Right))
	case OpAdd, OpMul:
		return len(flattenArith(b.Op, b.Left, b.Right))
	default:
		return 1
	}
}
