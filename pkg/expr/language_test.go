package expr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/dslgen/pkg/errors"
)

func upperName(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, " $") {
		return "", fmt.Errorf("bad character in %q", raw)
	}
	return strings.ToUpper(s), nil
}

// newTestLang builds a language that binds the mandatory slots plus extra.
func newTestLang(t *testing.T, name string, extra ...Slot) *Language {
	t.Helper()
	l := NewLanguage(name)
	infix := func(sym string) Formatter {
		return func(e Expr) string {
			b := e.(*BinaryNode)
			return "(" + b.Left.String() + " " + sym + " " + b.Right.String() + ")"
		}
	}
	require.NoError(t, l.Bind(SlotBool, func(e Expr) string {
		if e.(*Const).Bool() {
			return "T"
		}
		return "F"
	}))
	require.NoError(t, l.Bind(SlotNot, func(e Expr) string { return "~" + e.(*UnaryNode).Child.String() }))
	require.NoError(t, l.Bind(SlotAnd, infix("&")))
	require.NoError(t, l.Bind(SlotOr, infix("|")))
	require.NoError(t, l.BindName(NameRules{
		Normalize: upperName,
		Format:    func(e Expr) string { return e.(*Name).Name() },
	}))
	for _, s := range extra {
		switch s {
		case SlotNull:
			require.NoError(t, l.Bind(s, func(Expr) string { return "<null>" }))
		case SlotAdd:
			require.NoError(t, l.Bind(s, infix("+")))
		case SlotSub:
			require.NoError(t, l.Bind(s, infix("-")))
		case SlotMul:
			require.NoError(t, l.Bind(s, infix("*")))
		case SlotDiv:
			require.NoError(t, l.Bind(s, infix("/")))
		}
	}
	require.NoError(t, l.Freeze())
	return l
}

func TestValidateNamesMissingSlots(t *testing.T) {
	l := NewLanguage("partial")
	require.NoError(t, l.Bind(SlotBool, func(Expr) string { return "" }))
	require.NoError(t, l.Bind(SlotAnd, func(Expr) string { return "" }))

	err := l.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.KindIncompleteDialect, errors.GetKind(err))
	assert.Contains(t, err.Error(), "Name, Not, Or")
	assert.Equal(t, []string{"Name", "Not", "Or"}, errors.GetAttributes(err)["missing"])
	assert.Equal(t, []Slot{SlotName, SlotNot, SlotOr}, l.Missing())

	assert.Error(t, l.Freeze())
	assert.False(t, l.Frozen())
}

func TestUnfrozenLanguageRejectsOperators(t *testing.T) {
	l := NewLanguage("draft")
	require.NoError(t, l.Bind(SlotBool, func(Expr) string { return "" }))

	_, err := And(l.True(), l.False())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIncompleteDialect))
	assert.Contains(t, err.Error(), "Name, Not, And, Or")

	_, err = Not(l.True())
	assert.True(t, errors.IsKind(err, errors.KindIncompleteDialect))

	_, err = l.Name("x")
	assert.True(t, errors.IsKind(err, errors.KindIncompleteDialect))
}

func TestFrozenLanguageRejectsBindings(t *testing.T) {
	l := newTestLang(t, "frozen")
	assert.True(t, l.Frozen())
	assert.Error(t, l.Bind(SlotAdd, func(Expr) string { return "" }))
	assert.Error(t, l.BindName(NameRules{Normalize: upperName, Format: func(Expr) string { return "" }}))
}

func TestBindErrors(t *testing.T) {
	l := NewLanguage("bind")
	assert.Error(t, l.Bind(SlotAnd, nil))
	assert.Error(t, l.Bind(SlotName, func(Expr) string { return "" }))
	assert.Error(t, l.Bind(Slot(99), func(Expr) string { return "" }))
	assert.Error(t, l.BindName(NameRules{}))
	assert.Equal(t, "Slot(99)", Slot(99).String())
}

func TestOptionalSlots(t *testing.T) {
	bare := newTestLang(t, "bare")
	assert.False(t, bare.HasNull())
	assert.False(t, bare.Supports(OpAdd))
	assert.True(t, bare.Supports(OpOr))

	_, err := bare.Null()
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedOp))

	_, err = Mul(bare.Int(2), bare.Int(3))
	require.Error(t, err)
	assert.Equal(t, errors.KindUnsupportedOp, errors.GetKind(err))
	assert.Contains(t, err.Error(), "does not define operator '*'")

	_, err = NewBinary(OpDiv, bare.Int(2), bare.Int(3))
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedOp))

	full := newTestLang(t, "full", SlotNull, SlotAdd, SlotSub, SlotMul, SlotDiv)
	assert.True(t, full.HasNull())
	n1, err := full.Null()
	require.NoError(t, err)
	n2, err := full.Null()
	require.NoError(t, err)
	assert.Same(t, n1, n2)
}

func TestNeutralPrinting(t *testing.T) {
	l := newTestLang(t, "neutral")
	assert.Equal(t, "7", l.Int(7).String())
	assert.Equal(t, "0x1F", l.Hex(31).String())
	assert.Equal(t, `"a b"`, l.Str("a b").String())
}

func TestParseLiterals(t *testing.T) {
	l := newTestLang(t, "parse")

	for _, s := range []string{"y", "YES", "true", "1"} {
		c, err := l.ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, IsTrue(c), s)
	}
	for _, s := range []string{"n", "no", "False", "0"} {
		c, err := l.ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, IsFalse(c), s)
	}

	c, err := l.ParseInt(" -12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(-12), c.Int())

	c, err = l.ParseHex("0xff")
	require.NoError(t, err)
	assert.Equal(t, int64(255), c.Int())
	assert.Equal(t, ConstHex, c.Type())

	c, err = l.ParseHex("10")
	require.NoError(t, err)
	assert.Equal(t, int64(16), c.Int())

	bad := []func() error{
		func() error { _, err := l.ParseBool("maybe"); return err },
		func() error { _, err := l.ParseInt("12a"); return err },
		func() error { _, err := l.ParseHex("0x"); return err },
		func() error { _, err := l.ParseHex("zz"); return err },
	}
	for i, f := range bad {
		err := f()
		require.Error(t, err, i)
		assert.Equal(t, errors.KindInvalidLiteral, errors.GetKind(err), i)
		assert.NotEmpty(t, errors.GetAttributes(err)["value"], i)
	}
}

func TestNameNormalization(t *testing.T) {
	l := newTestLang(t, "names")

	n, err := l.Name(" foo ")
	require.NoError(t, err)
	assert.Equal(t, "FOO", n.Name())

	_, err = l.Name("a b")
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidLiteral, errors.GetKind(err))
	assert.Equal(t, "a b", errors.GetAttributes(err)["value"])

	_, err = l.Name("   ")
	assert.True(t, errors.IsKind(err, errors.KindInvalidLiteral))

	assert.Panics(t, func() { l.MustName("a$") })
}

func TestRegistry(t *testing.T) {
	l := newTestLang(t, "registry-test")
	require.NoError(t, Register(l))
	assert.Error(t, Register(l))

	got, err := Lookup("registry-test")
	require.NoError(t, err)
	assert.Same(t, l, got)
	assert.Contains(t, Languages(), "registry-test")

	_, err = Lookup("missing")
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	assert.Error(t, Register(NewLanguage("unfrozen")))
}

func TestNilOperands(t *testing.T) {
	l := newTestLang(t, "nil")
	_, err := And(nil, l.True())
	assert.Error(t, err)
	_, err = Not(nil)
	assert.Error(t, err)
	_, err = NewNot(nil)
	assert.Error(t, err)
}

func TestMust(t *testing.T) {
	l := newTestLang(t, "must")
	assert.Panics(t, func() { Must(Add(l.Int(1), l.Int(2))) })
	assert.NotPanics(t, func() { Must(And(l.True(), l.True())) })
}
