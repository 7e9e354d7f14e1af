package expr

import (
	"fmt"
	"strconv"
)

// formatter returns the binding used to print e, or nil when the slot is unbound.
func (l *Language) formatter(e Expr) Formatter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch n := e.(type) {
	case *Const:
		switch n.typ {
		case ConstBool:
			return l.types.Bool
		case ConstInt:
			return l.types.Int
		case ConstHex:
			return l.types.Hex
		default:
			return l.types.String
		}
	case *Name:
		if l.types.Name != nil {
			return l.types.Name.Format
		}
	case *Null:
		return l.types.Null
	case *UnaryNode:
		return l.ops.Not
	case *BinaryNode:
		switch n.Op {
		case OpAnd:
			return l.ops.And
		case OpOr:
			return l.ops.Or
		case OpAdd:
			return l.ops.Add
		case OpSub:
			return l.ops.Sub
		case OpMul:
			return l.ops.Mul
		case OpDiv:
			return l.ops.Div
		}
	}
	return nil
}

// String methods dispatch to the language binding. Unbound optional slots
// fall back to a neutral prefix notation.

func (c *Const) String() string {
	if f := c.lang.formatter(c); f != nil {
		return f(c)
	}
	switch c.typ {
	case ConstBool:
		return strconv.FormatBool(c.b)
	case ConstInt:
		return strconv.FormatInt(c.i, 10)
	case ConstHex:
		return fmt.Sprintf("0x%X", c.i)
	default:
		return strconv.Quote(c.s)
	}
}

func (n *Name) String() string {
	if f := n.lang.formatter(n); f != nil {
		return f(n)
	}
	return n.name
}

func (n *Null) String() string {
	if f := n.lang.formatter(n); f != nil {
		return f(n)
	}
	return ""
}

func (u *UnaryNode) String() string {
	if f := u.lang.formatter(u); f != nil {
		return f(u)
	}
	return fmt.Sprintf("(not %s)", u.Child)
}

func (b *BinaryNode) String() string {
	if f := b.lang.formatter(b); f != nil {
		return f(b)
	}
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// FlattenOperands returns the operands of a chain of op rooted at e, left to
// right, without simplifying. Printers use it to emit n-ary forms.
func FlattenOperands(op BinaryOp, e Expr) []Expr {
	var out []Expr
	var walk func(Expr)
	walk = func(x Expr) {
		if b, ok := x.(*BinaryNode); ok && b.Op == op {
			walk(b.Left)
			walk(b.Right)
			return
		}
		out = append(out, x)
	}
	walk(e)
	return out
}
