package expr

import (
	"strconv"
	"strings"
	"sync"

	"github.com/wildfunctions/dslgen/pkg/errors"
)

// Formatter renders one node in a dialect's syntax. Composite formatters
// call String on children to recurse.
type Formatter func(e Expr) string

// NameRules validate and print variable references for a dialect.
type NameRules struct {
	// Normalize turns raw input into the canonical identifier or fails.
	Normalize func(raw string) (string, error)
	Format    Formatter
}

// Slot names one role in a language's binding table.
type Slot int

const (
	SlotBool Slot = iota
	SlotName
	SlotNull
	SlotInt
	SlotHex
	SlotString
	SlotNot
	SlotAnd
	SlotOr
	SlotAdd
	SlotSub
	SlotMul
	SlotDiv
)

var slotNames = map[Slot]string{
	SlotBool:   "Bool",
	SlotName:   "Name",
	SlotNull:   "Null",
	SlotInt:    "Int",
	SlotHex:    "Hex",
	SlotString: "String",
	SlotNot:    "Not",
	SlotAnd:    "And",
	SlotOr:     "Or",
	SlotAdd:    "Add",
	SlotSub:    "Sub",
	SlotMul:    "Mul",
	SlotDiv:    "Div",
}

func (s Slot) String() string {
	if n, ok := slotNames[s]; ok {
		return n
	}
	return "Slot(" + strconv.Itoa(int(s)) + ")"
}

// MandatorySlots must be bound before a language can be frozen.
var MandatorySlots = []Slot{SlotBool, SlotName, SlotNot, SlotAnd, SlotOr}

func opSlot(op BinaryOp) Slot {
	switch op {
	case OpAnd:
		return SlotAnd
	case OpOr:
		return SlotOr
	case OpAdd:
		return SlotAdd
	case OpSub:
		return SlotSub
	case OpMul:
		return SlotMul
	default:
		return SlotDiv
	}
}

// Types holds the leaf bindings of a language.
type Types struct {
	Bool   Formatter
	Name   *NameRules
	Null   Formatter
	Int    Formatter
	Hex    Formatter
	String Formatter
}

// Ops holds the operator bindings of a language.
type Ops struct {
	Not Formatter
	And Formatter
	Or  Formatter
	Add Formatter
	Sub Formatter
	Mul Formatter
	Div Formatter
}

// Language is a dialect: a named table of leaf and operator bindings.
// It is populated once, frozen, and read-only afterwards.
type Language struct {
	name  string
	types Types
	ops   Ops

	mu     sync.RWMutex
	frozen bool
	null   *Null
}

// NewLanguage returns an empty, unfrozen language.
func NewLanguage(name string) *Language {
	return &Language{name: name}
}

// LangName returns the language name.
func (l *Language) LangName() string { return l.name }

func (l *Language) String() string { return l.name }

// Bind registers f as the formatter for slot. SlotName must use BindName.
func (l *Language) Bind(slot Slot, f Formatter) error {
	if f == nil {
		return errors.Errorf(errors.KindIncompleteDialect, "language %s: nil binding for slot %s", l.name, slot)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.frozen {
		return errors.Errorf(errors.KindIncompleteDialect, "language %s is frozen, cannot bind %s", l.name, slot)
	}

	switch slot {
	case SlotBool:
		l.types.Bool = f
	case SlotNull:
		l.types.Null = f
	case SlotInt:
		l.types.Int = f
	case SlotHex:
		l.types.Hex = f
	case SlotString:
		l.types.String = f
	case SlotNot:
		l.ops.Not = f
	case SlotAnd:
		l.ops.And = f
	case SlotOr:
		l.ops.Or = f
	case SlotAdd:
		l.ops.Add = f
	case SlotSub:
		l.ops.Sub = f
	case SlotMul:
		l.ops.Mul = f
	case SlotDiv:
		l.ops.Div = f
	case SlotName:
		return errors.Errorf(errors.KindIncompleteDialect, "language %s: slot Name is bound with BindName", l.name)
	default:
		return errors.Errorf(errors.KindIncompleteDialect, "language %s: unknown slot %s", l.name, slot)
	}
	return nil
}

// BindName registers the Name rules.
func (l *Language) BindName(rules NameRules) error {
	if rules.Normalize == nil || rules.Format == nil {
		return errors.Errorf(errors.KindIncompleteDialect, "language %s: name rules need Normalize and Format", l.name)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.frozen {
		return errors.Errorf(errors.KindIncompleteDialect, "language %s is frozen, cannot bind Name", l.name)
	}
	l.types.Name = &rules
	return nil
}

func (l *Language) bound(slot Slot) bool {
	switch slot {
	case SlotBool:
		return l.types.Bool != nil
	case SlotName:
		return l.types.Name != nil
	case SlotNull:
		return l.types.Null != nil
	case SlotInt:
		return l.types.Int != nil
	case SlotHex:
		return l.types.Hex != nil
	case SlotString:
		return l.types.String != nil
	case SlotNot:
		return l.ops.Not != nil
	case SlotAnd:
		return l.ops.And != nil
	case SlotOr:
		return l.ops.Or != nil
	case SlotAdd:
		return l.ops.Add != nil
	case SlotSub:
		return l.ops.Sub != nil
	case SlotMul:
		return l.ops.Mul != nil
	case SlotDiv:
		return l.ops.Div != nil
	}
	return false
}

// Bound reports whether slot has a binding.
func (l *Language) Bound(slot Slot) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bound(slot)
}

// Missing lists the unbound mandatory slots.
func (l *Language) Missing() []Slot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var missing []Slot
	for _, s := range MandatorySlots {
		if !l.bound(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// Validate fails with every unbound mandatory slot named.
func (l *Language) Validate() error {
	missing := l.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, s := range missing {
		names[i] = s.String()
	}
	err := errors.Errorf(errors.KindIncompleteDialect,
		"language %s is missing mandatory slots: %s", l.name, strings.Join(names, ", "))
	return errors.Attr(err, "missing", names)
}

// Freeze validates the language and makes it read-only.
func (l *Language) Freeze() error {
	if err := l.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.types.Null != nil {
		l.null = &Null{lang: l}
	}
	l.frozen = true
	return nil
}

// Frozen reports whether Freeze has succeeded.
func (l *Language) Frozen() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frozen
}

// ready is checked by every operator before combining expressions.
func (l *Language) ready() error {
	if l.Frozen() {
		return nil
	}
	if err := l.Validate(); err != nil {
		return err
	}
	return errors.Errorf(errors.KindIncompleteDialect, "language %s is not frozen", l.name)
}

// Supports reports whether the language binds the operator.
func (l *Language) Supports(op BinaryOp) bool {
	return l.Bound(opSlot(op))
}

// HasNull reports whether the language defines a Null sentinel.
func (l *Language) HasNull() bool {
	return l.Bound(SlotNull)
}

// Leaf constructors

// Bool returns a boolean constant.
func (l *Language) Bool(v bool) *Const { return &Const{lang: l, typ: ConstBool, b: v} }

// True returns the boolean constant true.
func (l *Language) True() *Const { return l.Bool(true) }

// False returns the boolean constant false.
func (l *Language) False() *Const { return l.Bool(false) }

// Int returns a decimal integer constant.
func (l *Language) Int(v int64) *Const { return &Const{lang: l, typ: ConstInt, i: v} }

// Hex returns an integer constant printed in hexadecimal.
func (l *Language) Hex(v int64) *Const { return &Const{lang: l, typ: ConstHex, i: v} }

// Str returns a string constant.
func (l *Language) Str(v string) *Const { return &Const{lang: l, typ: ConstString, s: v} }

// ParseBool accepts y/n, yes/no, true/false, 1/0 in any case.
func (l *Language) ParseBool(s string) (*Const, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return l.Bool(true), nil
	case "n", "no", "false", "0":
		return l.Bool(false), nil
	}
	return nil, invalidLiteral(s, "bool", "y/n, yes/no, true/false or 1/0")
}

// ParseInt accepts an optionally signed decimal integer.
func (l *Language) ParseInt(s string) (*Const, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, invalidLiteral(s, "int", "a decimal integer")
	}
	return l.Int(v), nil
}

// ParseHex accepts hex digits with an optional 0x/0X prefix.
func (l *Language) ParseHex(s string) (*Const, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	v, err := strconv.ParseInt(t, 16, 64)
	if err != nil || t == "" {
		return nil, invalidLiteral(s, "hex", "hexadecimal digits with optional 0x prefix")
	}
	return l.Hex(v), nil
}

// Name validates and normalizes raw into a variable reference.
func (l *Language) Name(raw string) (*Name, error) {
	l.mu.RLock()
	rules := l.types.Name
	l.mu.RUnlock()
	if rules == nil {
		return nil, errors.Errorf(errors.KindIncompleteDialect, "language %s is missing mandatory slots: Name", l.name)
	}
	n, err := rules.Normalize(raw)
	if err != nil {
		return nil, errors.Attr(errors.Wrapf(err, errors.KindInvalidLiteral, "invalid %s name %q", l.name, raw), "value", raw)
	}
	if n == "" {
		return nil, invalidLiteral(raw, "name", "a non-empty identifier")
	}
	return &Name{lang: l, name: n}, nil
}

// MustName is like Name but panics on error. Intended for static tables.
func (l *Language) MustName(raw string) *Name {
	n, err := l.Name(raw)
	if err != nil {
		panic(err)
	}
	return n
}

// Null returns the language's Null singleton.
func (l *Language) Null() (*Null, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.null == nil {
		return nil, errors.Errorf(errors.KindUnsupportedOp, "language %s does not define Null", l.name)
	}
	return l.null, nil
}

func invalidLiteral(value, typ, expected string) error {
	err := errors.Errorf(errors.KindInvalidLiteral, "invalid %s literal %q: expected %s", typ, value, expected)
	return errors.Attr(err, "value", value)
}
