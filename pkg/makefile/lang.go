// Package makefile binds the expression engine to GNU Make syntax and
// provides emitters for assignments, rules and conditionals.
//
// Logic is expressed with Make's text functions: a non-empty string is
// true and the empty string is false.
package makefile

import (
	"strconv"
	"strings"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
)

// Lang is the Make dialect. It defines Null and the four arithmetic
// operators.
var Lang = newLang()

func init() {
	if err := expr.Register(Lang); err != nil {
		panic(err)
	}
}

func newLang() *expr.Language {
	l := expr.NewLanguage("make")
	bindings := []struct {
		slot expr.Slot
		f    expr.Formatter
	}{
		{expr.SlotBool, formatBool},
		{expr.SlotNull, formatNull},
		{expr.SlotInt, formatInt},
		{expr.SlotString, formatString},
		{expr.SlotNot, formatNot},
		{expr.SlotAnd, formatCall("and", expr.OpAnd)},
		{expr.SlotOr, formatCall("or", expr.OpOr)},
		{expr.SlotAdd, formatArith},
		{expr.SlotSub, formatArith},
		{expr.SlotMul, formatArith},
		{expr.SlotDiv, formatArith},
	}
	for _, b := range bindings {
		if err := l.Bind(b.slot, b.f); err != nil {
			panic(err)
		}
	}
	if err := l.BindName(expr.NameRules{Normalize: Normalize, Format: formatName}); err != nil {
		panic(err)
	}
	if err := l.Freeze(); err != nil {
		panic(err)
	}
	return l
}

// Normalize validates a Make variable name. Whitespace runs become '_'.
// Letters, digits, '_', '-' and '.' are allowed; the first character must
// be a letter or '_'.
func Normalize(raw string) (string, error) {
	s := strings.Join(strings.Fields(raw), "_")
	if s == "" {
		return "", errors.New(errors.KindInvalidLiteral, "empty variable name")
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9', r == '-', r == '.':
			if i == 0 {
				return "", errors.Errorf(errors.KindInvalidLiteral, "variable name %q cannot start with %q", s, r)
			}
		default:
			return "", errors.Errorf(errors.KindInvalidLiteral, "illegal character %q in variable name %q", r, s)
		}
	}
	return s, nil
}

func formatName(e expr.Expr) string {
	return "$(" + e.(*expr.Name).Name() + ")"
}

func formatBool(e expr.Expr) string {
	if e.(*expr.Const).Bool() {
		return "1"
	}
	return ""
}

func formatNull(expr.Expr) string { return "" }

func formatInt(e expr.Expr) string {
	return strconv.FormatInt(e.(*expr.Const).Int(), 10)
}

func formatString(e expr.Expr) string {
	return e.(*expr.Const).Str()
}

func formatNot(e expr.Expr) string {
	return "$(if " + e.(*expr.UnaryNode).Child.String() + ",,1)"
}

// formatCall prints a chain of op as one $(fn a,b,c) call.
func formatCall(fn string, op expr.BinaryOp) expr.Formatter {
	return func(e expr.Expr) string {
		operands := expr.FlattenOperands(op, e)
		if len(operands) == 1 {
			return operands[0].String()
		}
		args := make([]string, len(operands))
		for i, o := range operands {
			args[i] = o.String()
		}
		return "$(" + fn + " " + strings.Join(args, ",") + ")"
	}
}

// formatArith wraps an arithmetic subtree in one shell arithmetic expansion.
func formatArith(e expr.Expr) string {
	return "$(shell echo $$((" + infix(e) + ")))"
}

func precedence(op expr.BinaryOp) int {
	switch op {
	case expr.OpMul, expr.OpDiv:
		return 2
	case expr.OpAdd, expr.OpSub:
		return 1
	}
	return 0
}

func infix(e expr.Expr) string {
	b, ok := e.(*expr.BinaryNode)
	if !ok || b.Op.IsLogic() {
		return e.String()
	}
	p := precedence(b.Op)
	left := operand(b.Left, p, false)
	right := operand(b.Right, p, b.Op == expr.OpSub || b.Op == expr.OpDiv)
	return left + " " + b.Op.String() + " " + right
}

func operand(e expr.Expr, parent int, strict bool) string {
	s := infix(e)
	b, ok := e.(*expr.BinaryNode)
	if !ok || b.Op.IsLogic() {
		return s
	}
	if p := precedence(b.Op); p < parent || (strict && p == parent) {
		return "(" + s + ")"
	}
	return s
}

// Var returns the Make variable reference for name.
func Var(name string) (*expr.Name, error) { return Lang.Name(name) }

// MustVar is like Var but panics on an invalid name.
func MustVar(name string) *expr.Name { return Lang.MustName(name) }

// Null returns the Make Null sentinel.
func Null() *expr.Null {
	n, err := Lang.Null()
	if err != nil {
		panic(err)
	}
	return n
}

// Constant and combinator shorthands bound to Lang.

func True() *expr.Const        { return Lang.True() }
func False() *expr.Const       { return Lang.False() }
func Bool(v bool) *expr.Const  { return Lang.Bool(v) }
func Int(v int64) *expr.Const  { return Lang.Int(v) }
func Str(s string) *expr.Const { return Lang.Str(s) }

func All(xs ...expr.Expr) (expr.Expr, error) { return Lang.All(xs...) }
func Any(xs ...expr.Expr) (expr.Expr, error) { return Lang.Any(xs...) }
func Sum(xs ...expr.Expr) (expr.Expr, error) { return Lang.Sum(xs...) }
