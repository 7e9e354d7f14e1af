package manifest

import (
	"fmt"
	"sort"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
)

// Condition operators. str and hex wrap a literal; null is the Make empty
// value.
const (
	OpAll  = "all"
	OpAny  = "any"
	OpNot  = "not"
	OpAdd  = "add"
	OpSub  = "sub"
	OpMul  = "mul"
	OpDiv  = "div"
	OpStr  = "str"
	OpHex  = "hex"
	OpNull = "null"
)

var arithOps = map[string]expr.BinaryOp{
	OpAdd: expr.OpAdd,
	OpSub: expr.OpSub,
	OpMul: expr.OpMul,
	OpDiv: expr.OpDiv,
}

// Cond is a condition or value tree in a dialect-neutral form. A leaf has an
// empty Op and holds a name (string), a bool or an int64. Literal operators
// (str, hex) keep their text in Leaf; the others take Args.
type Cond struct {
	Op   string
	Leaf any
	Args []*Cond
}

// Leaf wraps a name, bool or integer.
func Leaf(v any) *Cond {
	if i, ok := v.(int); ok {
		v = int64(i)
	}
	return &Cond{Leaf: v}
}

// Op builds an operator node.
func Op(op string, args ...*Cond) *Cond {
	return &Cond{Op: op, Args: args}
}

// Literal builds a str or hex node.
func Literal(op, text string) *Cond {
	return &Cond{Op: op, Leaf: text}
}

// IsLeaf reports whether c is a plain name or constant.
func (c *Cond) IsLeaf() bool { return c.Op == "" }

// Names returns the sorted, distinct names referenced by c.
func (c *Cond) Names() []string {
	seen := make(map[string]bool)
	var walk func(*Cond)
	walk = func(n *Cond) {
		if n == nil {
			return
		}
		if s, ok := n.Leaf.(string); ok && n.IsLeaf() {
			seen[s] = true
		}
		for _, a := range n.Args {
			walk(a)
		}
	}
	walk(c)
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// newCond validates operator arity and literal payloads.
func newCond(op string, leaf any, args []*Cond) (*Cond, error) {
	switch op {
	case "":
		switch leaf.(type) {
		case string, bool, int64:
		default:
			return nil, condError("unsupported leaf value %v (%T)", leaf, leaf)
		}
	case OpStr, OpHex:
		if _, ok := leaf.(string); !ok {
			return nil, condError("%s expects a string, got %T", op, leaf)
		}
	case OpNull:
		if len(args) != 0 {
			return nil, condError("null takes no operands")
		}
	case OpNot:
		if len(args) != 1 {
			return nil, condError("not takes exactly one operand, got %d", len(args))
		}
	case OpAll, OpAny:
	case OpAdd, OpSub, OpMul, OpDiv:
		if len(args) == 0 {
			return nil, condError("%s needs at least one operand", op)
		}
	default:
		return nil, errors.Attr(condError("unknown operator %q", op), "operator", op)
	}
	return &Cond{Op: op, Leaf: leaf, Args: args}, nil
}

func condError(format string, args ...any) error {
	return errors.Errorf(errors.KindConfig, "condition: "+format, args...)
}

// Expr builds c as an expression of l. Every combination is simplified as
// it is built.
func (c *Cond) Expr(l *expr.Language) (expr.Expr, error) {
	if c == nil {
		return nil, condError("empty condition")
	}

	switch c.Op {
	case "":
		switch v := c.Leaf.(type) {
		case string:
			return l.Name(v)
		case bool:
			return l.Bool(v), nil
		case int64:
			return l.Int(v), nil
		}
		return nil, condError("unsupported leaf value %v (%T)", c.Leaf, c.Leaf)
	case OpStr:
		return l.Str(fmt.Sprint(c.Leaf)), nil
	case OpHex:
		return l.ParseHex(fmt.Sprint(c.Leaf))
	case OpNull:
		return l.Null()
	}

	args := make([]expr.Expr, len(c.Args))
	for i, a := range c.Args {
		x, err := a.Expr(l)
		if err != nil {
			return nil, err
		}
		args[i] = x
	}

	switch c.Op {
	case OpNot:
		if len(args) != 1 {
			return nil, condError("not takes exactly one operand, got %d", len(args))
		}
		return expr.Not(args[0])
	case OpAll:
		return l.All(args...)
	case OpAny:
		return l.Any(args...)
	}

	op, ok := arithOps[c.Op]
	if !ok {
		return nil, errors.Attr(condError("unknown operator %q", c.Op), "operator", c.Op)
	}
	if len(args) == 0 {
		return nil, condError("%s needs at least one operand", c.Op)
	}
	acc := args[0]
	for _, x := range args[1:] {
		next, err := expr.Apply(op, acc, x)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}
