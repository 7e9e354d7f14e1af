package kconfig

import (
	"strings"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
	"github.com/wildfunctions/dslgen/pkg/render"
)

// Margin separates top-level entries and block children.
var Margin render.Node = render.BlankLine(1)

// Type is a Kconfig symbol type.
type Type string

const (
	TypeBool   Type = "bool"
	TypeInt    Type = "int"
	TypeHex    Type = "hex"
	TypeString Type = "string"
)

// ConstType returns the constant type a default of this symbol type must have.
func (t Type) ConstType() (expr.ConstType, error) {
	switch t {
	case TypeBool:
		return expr.ConstBool, nil
	case TypeInt:
		return expr.ConstInt, nil
	case TypeHex:
		return expr.ConstHex, nil
	case TypeString:
		return expr.ConstString, nil
	}
	return 0, errors.Errorf(errors.KindInvalidLiteral, "unknown kconfig type %q", string(t))
}

func checkLang(e expr.Expr) error {
	if e.Lang() != Lang {
		err := errors.Errorf(errors.KindDialectMismatch, "expected kconfig expression, got %s", e.Lang())
		return errors.Attr(err, "language", e.Lang().LangName())
	}
	return nil
}

// keyString renders `keyword "value"`.
func keyString(keyword, value string) render.Text {
	return render.Text(keyword + " " + Quote(value))
}

// Entry is a config or menuconfig symbol definition:
//
//	config NAME
//		<type> ["prompt"]
//		[default ...]
//		[depends on ...]
//		[select ...]
//		[help ...]
type Entry struct {
	name      *expr.Name
	typ       Type
	constType expr.ConstType
	keyword   string
	body      []render.Node
	help      []string
}

// Config starts a `config` entry. An empty prompt leaves the symbol invisible.
func Config(name *expr.Name, typ Type, prompt string) (*Entry, error) {
	return newEntry("config", name, typ, prompt)
}

// MenuConfig starts a `menuconfig` entry. It is always a bool with a prompt.
func MenuConfig(name *expr.Name, prompt string) (*Entry, error) {
	if prompt == "" && name != nil {
		return nil, errors.Attr(errors.Errorf(errors.KindInvalidLiteral, "menuconfig %s needs a prompt", name), "name", name.Name())
	}
	return newEntry("menuconfig", name, TypeBool, prompt)
}

func newEntry(keyword string, name *expr.Name, typ Type, prompt string) (*Entry, error) {
	if name == nil {
		return nil, errors.New(errors.KindInvalidLiteral, "kconfig entry needs a name")
	}
	if err := checkLang(name); err != nil {
		return nil, err
	}
	ct, err := typ.ConstType()
	if err != nil {
		return nil, err
	}

	e := &Entry{name: name, typ: typ, constType: ct, keyword: keyword}
	if prompt == "" {
		e.body = append(e.body, render.Text(string(typ)))
	} else {
		e.body = append(e.body, keyString(string(typ), prompt))
	}
	return e, nil
}

// Name returns the symbol this entry defines.
func (e *Entry) Name() *expr.Name { return e.name }

// Type returns the symbol type.
func (e *Entry) Type() Type { return e.typ }

// Default adds `default VALUE [if WHEN]`. A nil or true condition is
// omitted. Constants must match the entry type; bool entries also accept
// any logic expression.
func (e *Entry) Default(value, when expr.Expr) error {
	if value == nil {
		return errors.New(errors.KindInvalidLiteral, "nil default value")
	}
	if err := checkLang(value); err != nil {
		return err
	}
	switch v := value.(type) {
	case *expr.Name:
	case *expr.Const:
		if v.Type() != e.constType {
			err := errors.Errorf(errors.KindInvalidLiteral,
				"default for %s %s must be a %s constant, got %s", e.typ, e.name, e.constType, v.Type())
			return errors.Attr(err, "value", v.String())
		}
	default:
		if e.typ != TypeBool {
			err := errors.Errorf(errors.KindInvalidLiteral,
				"default for %s %s must be a symbol or %s constant", e.typ, e.name, e.constType)
			return errors.Attr(err, "value", v.String())
		}
	}

	line, err := conditional("default "+value.String(), when)
	if err != nil {
		return err
	}
	e.body = append(e.body, line)
	return nil
}

// DependsOn adds one `depends on` line per condition. True conditions are
// skipped.
func (e *Entry) DependsOn(conds ...expr.Expr) error {
	for _, c := range conds {
		if c == nil {
			continue
		}
		if err := checkLang(c); err != nil {
			return err
		}
		if expr.IsTrue(c) {
			continue
		}
		e.body = append(e.body, render.Text("depends on "+c.String()))
	}
	return nil
}

// Select adds `select SYM [if WHEN]`.
func (e *Entry) Select(sym *expr.Name, when expr.Expr) error {
	if sym == nil {
		return errors.New(errors.KindInvalidLiteral, "nil select symbol")
	}
	if err := checkLang(sym); err != nil {
		return err
	}
	line, err := conditional("select "+sym.String(), when)
	if err != nil {
		return err
	}
	e.body = append(e.body, line)
	return nil
}

// Help sets the help text. Each line of text becomes one indented line.
func (e *Entry) Help(text string) *Entry {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		e.help = nil
		return e
	}
	e.help = strings.Split(text, "\n")
	return e
}

func conditional(line string, when expr.Expr) (render.Node, error) {
	if when == nil || expr.IsTrue(when) {
		return render.Text(line), nil
	}
	if err := checkLang(when); err != nil {
		return nil, err
	}
	return render.Text(line + " if " + when.String()), nil
}

func (e *Entry) Lines() []string {
	b := &render.Block{Begin: render.Text(e.keyword + " " + e.name.String())}
	b.Append(e.body...)
	if len(e.help) > 0 {
		b.Append(&render.Block{
			Begin:    render.Text("help"),
			Children: []render.Node{render.Lines(e.help...)},
		})
	}
	return b.Lines()
}

// block is `<begin>` / indented children / `end<keyword>`.
func block(begin render.Node, keyword string, children []render.Node) *render.Block {
	return &render.Block{
		Begin:    begin,
		End:      render.Text("end" + keyword),
		Children: children,
		Inner:    Margin,
	}
}

// Menu renders `menu "title"` ... `endmenu`.
func Menu(title string, children ...render.Node) *render.Block {
	return block(keyString("menu", title), "menu", children)
}

// If renders `if COND` ... `endif`.
func If(cond expr.Expr, children ...render.Node) (*render.Block, error) {
	if cond == nil {
		return nil, errors.New(errors.KindInvalidLiteral, "nil if condition")
	}
	if err := checkLang(cond); err != nil {
		return nil, err
	}
	return block(render.Text("if "+cond.String()), "if", children), nil
}

// Choice renders a choice group. The header carries the prompt and type;
// the alternatives are the children.
//
//	choice
//		prompt "..."
//		bool
//		<alternatives...>
//	endchoice
func Choice(prompt string, alternatives ...*Entry) *render.Block {
	header := &render.Block{
		Begin:    render.Text("choice"),
		Children: []render.Node{keyString("prompt", prompt), render.Text(string(TypeBool))},
	}
	children := make([]render.Node, len(alternatives))
	for i, a := range alternatives {
		children[i] = a
	}
	return block(header, "choice", children)
}

// MainMenu renders the `mainmenu "title"` line that opens a top-level file.
func MainMenu(title string) render.Node { return keyString("mainmenu", title) }

// Comment renders `comment "text"`.
func Comment(text string) render.Node { return keyString("comment", text) }

// Source renders `source "path"`.
func Source(path string) render.Node { return keyString("source", path) }

// File stacks top-level nodes separated by Margin.
func File(nodes ...render.Node) *render.Stack {
	return &render.Stack{Children: nodes, Inner: Margin}
}
