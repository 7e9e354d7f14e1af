package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/render"
)

const wantKconfig = `mainmenu "Demo firmware"

source "drivers/Kconfig"

config DEBUG
	bool "Enable debugging"
	default y if !RELEASE
	help
		Adds symbols and assertions.

config RELEASE
	bool "Release build"

config LOG_LEVEL
	int "Log level"
	default 3 if DEBUG
	default 1
	depends on DEBUG || VERBOSE

menu "Memory"

	if !RELEASE

		config HEAP_BASE
			hex
			default 0x2000

		config BOARD
			string "Board name"
			default "devkit"

	endif

endmenu

choice
	prompt "Optimization"
	bool

	config OPT_SIZE
		bool "Size"

	config OPT_SPEED
		bool "Speed"
		select VERBOSE if DEBUG

endchoice`

const wantMakefile = `# Demo firmware

include config.mk

CC     := gcc
CFLAGS += -O2 -g
JOBS   = $(shell echo $$((1 + $(CORES))))

ifneq ($(strip $(and $(CONFIG_DEBUG),$(if $(CONFIG_RELEASE),,1))),)
CFLAGS += -DDEBUG
endif

.PHONY : all clean

all : app

app : main.o util.o | build
	$(CC) $(CFLAGS) -o $@ $^

clean :
	rm -f app *.o`

func TestLoadDemo(t *testing.T) {
	for _, file := range []string{"demo.yaml", "demo.hcl"} {
		t.Run(file, func(t *testing.T) {
			m, err := Load(filepath.Join("testdata", file))
			require.NoError(t, err)
			assert.Equal(t, "Demo firmware", m.Name)

			k, err := m.Kconfig()
			require.NoError(t, err)
			assert.Equal(t, wantKconfig, render.Render(k))

			mk, err := m.Makefile()
			require.NoError(t, err)
			assert.Equal(t, wantMakefile, render.Render(mk))

			assert.Equal(t, []string{"VERBOSE"}, m.Undefined())
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIO))

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = 'x'"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
	assert.Equal(t, path, errors.GetAttributes(err)["path"])
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown field", "bogus: 1\n"},
		{"unknown operator", "symbols:\n  - name: a\n    depends_on: {xor: [a, b]}\n"},
		{"two keys", "symbols:\n  - name: a\n    depends_on: {all: [a], any: [b]}\n"},
		{"not arity", "symbols:\n  - name: a\n    depends_on: {not: [a, b]}\n"},
		{"list condition", "symbols:\n  - name: a\n    depends_on: [a, b]\n"},
		{"float leaf", "symbols:\n  - name: a\n    depends_on: 1.5\n"},
		{"str of list", "variables:\n  - name: A\n    expr: {str: [a]}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tc.doc))
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindConfig), "got %v", err)
		})
	}
}

func TestParseYAMLConditionLine(t *testing.T) {
	doc := "symbols:\n  - name: a\n    depends_on:\n      all: [a, {nope: b}]\n"
	_, err := ParseYAML([]byte(doc))
	require.Error(t, err)
	assert.Equal(t, 4, errors.GetAttributes(err)["line"])
}

func TestParseHCLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "symbol \"a\" {"},
		{"unknown block", "bogus {}\n"},
		{"fractional", "symbol \"a\" {\n  depends_on = 1.5\n}\n"},
		{"two keys", "symbol \"a\" {\n  depends_on = { all = [\"a\"], any = [\"b\"] }\n}\n"},
		{"null operand", "symbol \"a\" {\n  depends_on = { not = null }\n}\n"},
		{"missing targets", "rule {\n  phony = true\n}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tc.doc), "test.hcl")
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindConfig), "got %v", err)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	boolSym := func(name string) Symbol { return Symbol{Name: name} }

	tests := []struct {
		name string
		m    Manifest
		kind errors.Kind
	}{
		{
			name: "duplicate symbol",
			m:    Manifest{Symbols: []Symbol{boolSym("a"), boolSym("A")}},
			kind: errors.KindConfig,
		},
		{
			name: "duplicate across menus",
			m: Manifest{
				Symbols: []Symbol{boolSym("a")},
				Menus:   []Menu{{Title: "M", Symbols: []Symbol{boolSym("a")}}},
			},
			kind: errors.KindConfig,
		},
		{
			name: "bad name",
			m:    Manifest{Symbols: []Symbol{boolSym("  ")}},
			kind: errors.KindInvalidLiteral,
		},
		{
			name: "unknown type",
			m:    Manifest{Symbols: []Symbol{{Name: "a", Type: "tristate"}}},
			kind: errors.KindInvalidLiteral,
		},
		{
			name: "int default of wrong type",
			m: Manifest{Symbols: []Symbol{{
				Name: "a", Type: "int",
				Defaults: []Default{{Value: Literal(OpStr, "x")}},
			}}},
			kind: errors.KindInvalidLiteral,
		},
		{
			name: "arithmetic in kconfig",
			m: Manifest{Symbols: []Symbol{{
				Name: "a", Type: "int",
				Defaults: []Default{{Value: Op(OpAdd, Leaf("B"), Leaf(1))}},
			}}},
			kind: errors.KindUnsupportedOp,
		},
		{
			name: "menuconfig of int",
			m:    Manifest{Symbols: []Symbol{{Name: "a", Type: "int", MenuConfig: true, Prompt: "A"}}},
			kind: errors.KindConfig,
		},
		{
			name: "choice of int",
			m:    Manifest{Choices: []Choice{{Prompt: "P", Symbols: []Symbol{{Name: "a", Type: "int"}}}}},
			kind: errors.KindConfig,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.m.Kconfig()
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tc.kind), "got %v", err)
		})
	}
}

func TestMakefileErrors(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
		kind errors.Kind
	}{
		{
			name: "value and expr",
			m:    Manifest{Variables: []Variable{{Name: "A", Value: "x", Expr: Leaf("B")}}},
			kind: errors.KindConfig,
		},
		{
			name: "bad operator",
			m:    Manifest{Variables: []Variable{{Name: "A", Op: "::=", Value: "x"}}},
			kind: errors.KindInvalidLiteral,
		},
		{
			name: "bad variable name",
			m:    Manifest{Variables: []Variable{{Name: "1abc"}}},
			kind: errors.KindInvalidLiteral,
		},
		{
			name: "rule without targets",
			m:    Manifest{Rules: []Rule{{Recipe: []string{"true"}}}},
			kind: errors.KindInvalidLiteral,
		},
		{
			name: "hex in make",
			m:    Manifest{Variables: []Variable{{Name: "A", Expr: Op(OpAdd, Literal(OpHex, "zz"), Leaf(1))}}},
			kind: errors.KindInvalidLiteral,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.m.Makefile()
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tc.kind), "got %v", err)
		})
	}
}

func TestMakefileGuards(t *testing.T) {
	m := Manifest{
		Variables: []Variable{
			{Name: "A", Value: "1", When: Leaf(true)},
			{Name: "B", Value: "2", When: Op(OpAll, Leaf("X"), Op(OpNot, Leaf("X")))},
			{Name: "C", Value: "3", When: Op(OpNull)},
		},
		Rules: []Rule{
			{Targets: []string{"dist"}, Op: "::", When: Op(OpAny, Leaf("X"), Leaf("Y"))},
		},
	}
	mk, err := m.Makefile()
	require.NoError(t, err)
	want := "A = 1\n" +
		"\n" +
		"ifneq ($(strip $(or $(X),$(Y))),)\n" +
		"dist ::\n" +
		"endif"
	assert.Equal(t, want, render.Render(mk))
}
