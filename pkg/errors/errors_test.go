package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := New(KindInvalidLiteral, "bad hex")
	assert.Equal(t, "bad hex", err.Error())

	wrapped := Wrap(err, KindConfig, "loading manifest")
	assert.Equal(t, "loading manifest: bad hex", wrapped.Error())
	assert.Nil(t, Wrap(nil, KindConfig, "nothing"))
}

func TestGetKind(t *testing.T) {
	err := Errorf(KindDialectMismatch, "%s vs %s", "kconfig", "make")
	assert.Equal(t, KindDialectMismatch, GetKind(err))
	assert.Equal(t, KindUnknown, GetKind(errors.New("plain")))

	outer := fmt.Errorf("context: %w", err)
	assert.Equal(t, KindDialectMismatch, GetKind(outer))
}

func TestIsKind(t *testing.T) {
	inner := New(KindUnsupportedOp, "no '+'")
	outer := Wrap(inner, KindConfig, "building condition")

	assert.True(t, IsKind(outer, KindConfig))
	assert.True(t, IsKind(outer, KindUnsupportedOp))
	assert.False(t, IsKind(outer, KindIO))
	assert.False(t, IsKind(nil, KindIO))
}

func TestAttributes(t *testing.T) {
	err := Attr(New(KindInvalidLiteral, "bad name"), "value", "9 lives")
	err = Attr(Wrap(err, KindConfig, "entry"), "entry", 3)

	attrs := GetAttributes(err)
	assert.Equal(t, "9 lives", attrs["value"])
	assert.Equal(t, 3, attrs["entry"])

	plain := Attr(errors.New("plain"), "k", "v")
	assert.Equal(t, KindUnknown, GetKind(plain))
	assert.Equal(t, "v", GetAttributes(plain)["k"])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "incomplete_dialect", KindIncompleteDialect.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
