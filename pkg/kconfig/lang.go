// Package kconfig binds the expression engine to Kconfig syntax and provides
// emitters for Kconfig entries and blocks.
package kconfig

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
)

// Lang is the Kconfig dialect. It has no Null and no arithmetic.
var Lang = newLang()

var upper = cases.Upper(language.Und)

func init() {
	if err := expr.Register(Lang); err != nil {
		panic(err)
	}
}

func newLang() *expr.Language {
	l := expr.NewLanguage("kconfig")
	bindings := []struct {
		slot expr.Slot
		f    expr.Formatter
	}{
		{expr.SlotBool, formatBool},
		{expr.SlotInt, formatInt},
		{expr.SlotHex, formatHex},
		{expr.SlotString, formatString},
		{expr.SlotNot, formatNot},
		{expr.SlotAnd, formatAnd},
		{expr.SlotOr, formatOr},
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

// Normalize turns raw into a Kconfig symbol name: surrounding space is
// trimmed, accents are folded, every character outside [A-Za-z0-9_] becomes
// '_', a leading digit gets a '_' prefix and the result is upper-cased.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New(errors.KindInvalidLiteral, "empty variable name")
	}

	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s = b.String()
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return upper.String(s), nil
}

func formatName(e expr.Expr) string {
	return e.(*expr.Name).Name()
}

func formatBool(e expr.Expr) string {
	if e.(*expr.Const).Bool() {
		return "y"
	}
	return "n"
}

func formatInt(e expr.Expr) string {
	return strconv.FormatInt(e.(*expr.Const).Int(), 10)
}

func formatHex(e expr.Expr) string {
	v := e.(*expr.Const).Int()
	if v < 0 {
		return fmt.Sprintf("-0x%X", -v)
	}
	return fmt.Sprintf("0x%X", v)
}

// Quote renders s as a double-quoted Kconfig string.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func formatString(e expr.Expr) string {
	return Quote(e.(*expr.Const).Str())
}

func formatNot(e expr.Expr) string {
	u := e.(*expr.UnaryNode)
	switch u.Child.Kind() {
	case expr.KindAnd, expr.KindOr:
		return "!(" + u.Child.String() + ")"
	}
	return "!" + u.Child.String()
}

func formatAnd(e expr.Expr) string {
	b := e.(*expr.BinaryNode)
	return andOperand(b.Left) + " && " + andOperand(b.Right)
}

func andOperand(e expr.Expr) string {
	if e.Kind() == expr.KindOr {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func formatOr(e expr.Expr) string {
	b := e.(*expr.BinaryNode)
	return b.Left.String() + " || " + b.Right.String()
}

// Var returns the Kconfig symbol for name.
func Var(name string) (*expr.Name, error) { return Lang.Name(name) }

// MustVar is like Var but panics on an invalid name.
func MustVar(name string) *expr.Name { return Lang.MustName(name) }

// Constant and combinator shorthands bound to Lang.

func True() *expr.Const        { return Lang.True() }
func False() *expr.Const       { return Lang.False() }
func Bool(v bool) *expr.Const  { return Lang.Bool(v) }
func Int(v int64) *expr.Const  { return Lang.Int(v) }
func Hex(v int64) *expr.Const  { return Lang.Hex(v) }
func Str(s string) *expr.Const { return Lang.Str(s) }

func All(xs ...expr.Expr) (expr.Expr, error) { return Lang.All(xs...) }
func Any(xs ...expr.Expr) (expr.Expr, error) { return Lang.Any(xs...) }

// Const infers the constant type from v: bools stay bools, Go integers become
// int constants and strings become string constants.
func Const(v any) (*expr.Const, error) {
	switch x := v.(type) {
	case bool:
		return Lang.Bool(x), nil
	case int:
		return Lang.Int(int64(x)), nil
	case int64:
		return Lang.Int(x), nil
	case int32:
		return Lang.Int(int64(x)), nil
	case string:
		return Lang.Str(x), nil
	}
	err := errors.Errorf(errors.KindInvalidLiteral, "unsupported kconfig constant type %T", v)
	return nil, errors.Attr(err, "value", fmt.Sprint(v))
}

// ParseConst parses s as a constant of the given Kconfig type name
// ("bool", "int", "hex" or "string").
func ParseConst(typ, s string) (*expr.Const, error) {
	switch typ {
	case "bool":
		return Lang.ParseBool(s)
	case "int":
		return Lang.ParseInt(s)
	case "hex":
		return Lang.ParseHex(s)
	case "string":
		return Lang.Str(s), nil
	}
	return nil, errors.Errorf(errors.KindInvalidLiteral, "unknown kconfig type %q", typ)
}
