package expr

import (
	"github.com/wildfunctions/dslgen/pkg/errors"
)

func checkOperand(e Expr) error {
	if e == nil {
		return errors.New(errors.KindInvalidLiteral, "nil expression operand")
	}
	return nil
}

func sameLanguage(a, b Expr) error {
	if a.Lang() != b.Lang() {
		err := errors.Errorf(errors.KindDialectMismatch,
			"cannot combine %s expression with %s expression", a.Lang(), b.Lang())
		err = errors.Attr(err, "left", a.Lang().LangName())
		return errors.Attr(err, "right", b.Lang().LangName())
	}
	return nil
}

// NewNot builds an unsimplified NOT node.
func NewNot(child Expr) (*UnaryNode, error) {
	if err := checkOperand(child); err != nil {
		return nil, err
	}
	return &UnaryNode{lang: child.Lang(), Op: OpNot, Child: child}, nil
}

// NewBinary builds an unsimplified binary node. Both children must belong to
// the same language and the language must bind op.
func NewBinary(op BinaryOp, left, right Expr) (*BinaryNode, error) {
	if err := checkOperand(left); err != nil {
		return nil, err
	}
	if err := checkOperand(right); err != nil {
		return nil, err
	}
	if err := sameLanguage(left, right); err != nil {
		return nil, err
	}
	l := left.Lang()
	if !l.Supports(op) {
		return nil, unsupported(l, op)
	}
	return &BinaryNode{lang: l, Op: op, Left: left, Right: right}, nil
}

func unsupported(l *Language, op BinaryOp) error {
	err := errors.Errorf(errors.KindUnsupportedOp,
		"language %s does not define operator '%s' (%s)", l, op, opSlot(op))
	return errors.Attr(err, "operator", op.String())
}

// Apply combines a and b with op and returns the simplified result.
//
// A Null operand yields the other operand simplified; Null op Null yields
// the Null singleton.
func Apply(op BinaryOp, a, b Expr) (Expr, error) {
	if err := checkOperand(a); err != nil {
		return nil, err
	}
	if err := checkOperand(b); err != nil {
		return nil, err
	}
	if err := sameLanguage(a, b); err != nil {
		return nil, err
	}
	l := a.Lang()
	if err := l.ready(); err != nil {
		return nil, err
	}

	if l.HasNull() {
		an, bn := IsNull(a), IsNull(b)
		switch {
		case an && bn:
			return l.Null()
		case an:
			return Simplify(b), nil
		case bn:
			return Simplify(a), nil
		}
	}

	if !l.Supports(op) {
		return nil, unsupported(l, op)
	}
	return simplifyBinary(l, op, Simplify(a), Simplify(b)), nil
}

// Not negates x and returns the simplified result. Null passes through.
func Not(x Expr) (Expr, error) {
	if err := checkOperand(x); err != nil {
		return nil, err
	}
	l := x.Lang()
	if err := l.ready(); err != nil {
		return nil, err
	}
	if IsNull(x) {
		return x, nil
	}
	return simplifyUnary(l, Simplify(x)), nil
}

func And(a, b Expr) (Expr, error) { return Apply(OpAnd, a, b) }
func Or(a, b Expr) (Expr, error)  { return Apply(OpOr, a, b) }
func Add(a, b Expr) (Expr, error) { return Apply(OpAdd, a, b) }
func Sub(a, b Expr) (Expr, error) { return Apply(OpSub, a, b) }
func Mul(a, b Expr) (Expr, error) { return Apply(OpMul, a, b) }
func Div(a, b Expr) (Expr, error) { return Apply(OpDiv, a, b) }

// All folds xs with AND starting from true.
func (l *Language) All(xs ...Expr) (Expr, error) {
	return l.fold(OpAnd, l.True(), xs)
}

// Any folds xs with OR starting from false.
func (l *Language) Any(xs ...Expr) (Expr, error) {
	return l.fold(OpOr, l.False(), xs)
}

// Sum folds xs with + starting from 0.
func (l *Language) Sum(xs ...Expr) (Expr, error) {
	return l.fold(OpAdd, l.Int(0), xs)
}

func (l *Language) fold(op BinaryOp, acc Expr, xs []Expr) (Expr, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	for _, x := range xs {
		next, err := Apply(op, acc, x)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// Must returns e or panics on err. Intended for tests and static tables.
func Must(e Expr, err error) Expr {
	if err != nil {
		panic(err)
	}
	return e
}
