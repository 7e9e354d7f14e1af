package expr

// Expr is the interface for all expression tree nodes. Nodes are immutable
// once constructed and always belong to exactly one Language.
type Expr interface {
	Lang() *Language
	Kind() Kind
	Key() Key
	NodeCount() int
	Depth() int
	// Children yields 0, 1 or 2 children; binary nodes yield right then left.
	Children() []Expr
	String() string
}

// ConstType identifies the literal type carried by a Const.
type ConstType int

const (
	ConstBool ConstType = iota
	ConstInt
	ConstHex
	ConstString
)

func (t ConstType) kind() Kind {
	switch t {
	case ConstBool:
		return KindBool
	case ConstInt:
		return KindInt
	case ConstHex:
		return KindHex
	default:
		return KindString
	}
}

func (t ConstType) String() string {
	return t.kind().String()
}

// Const is a literal leaf.
type Const struct {
	lang *Language
	typ  ConstType
	b    bool
	i    int64
	s    string
}

// Name is a validated, normalized variable reference.
type Name struct {
	lang *Language
	name string
}

// Null is the per-language "no expression" sentinel.
type Null struct {
	lang *Language
}

// UnaryNode applies a unary operation to a child expression.
type UnaryNode struct {
	lang  *Language
	Op    UnaryOp
	Child Expr
}

// BinaryNode applies a binary operation to two child expressions.
type BinaryNode struct {
	lang        *Language
	Op          BinaryOp
	Left, Right Expr
}

func (c *Const) Lang() *Language      { return c.lang }
func (n *Name) Lang() *Language       { return n.lang }
func (n *Null) Lang() *Language       { return n.lang }
func (u *UnaryNode) Lang() *Language  { return u.lang }
func (b *BinaryNode) Lang() *Language { return b.lang }

func (c *Const) Kind() Kind      { return c.typ.kind() }
func (n *Name) Kind() Kind       { return KindName }
func (n *Null) Kind() Kind       { return KindNull }
func (u *UnaryNode) Kind() Kind  { return KindNot }
func (b *BinaryNode) Kind() Kind { return b.Op.Kind() }

// Type returns the literal type of the constant.
func (c *Const) Type() ConstType { return c.typ }

// Value returns the literal as a bool, int64 or string.
func (c *Const) Value() any {
	switch c.typ {
	case ConstBool:
		return c.b
	case ConstInt, ConstHex:
		return c.i
	default:
		return c.s
	}
}

// Bool returns the boolean payload; false for non-bool constants.
func (c *Const) Bool() bool { return c.typ == ConstBool && c.b }

// Int returns the integer payload of int and hex constants.
func (c *Const) Int() int64 { return c.i }

// Str returns the string payload of string constants.
func (c *Const) Str() string { return c.s }

// IsInteger reports whether the constant is an int or hex literal.
func (c *Const) IsInteger() bool { return c.typ == ConstInt || c.typ == ConstHex }

// Name returns the normalized identifier.
func (n *Name) Name() string { return n.name }

// AddPrefix returns a new Name "<prefix>_<name>", normalized by the same rules.
func (n *Name) AddPrefix(prefix string) (*Name, error) {
	return n.lang.Name(prefix + "_" + n.name)
}

// AddSuffix returns a new Name "<name>_<suffix>", normalized by the same rules.
func (n *Name) AddSuffix(suffix string) (*Name, error) {
	return n.lang.Name(n.name + "_" + suffix)
}

// Key methods

func (c *Const) Key() Key { return Key{Tag: c.Kind().String(), Scalar: c.Value()} }
func (n *Name) Key() Key  { return Key{Tag: KindName.String(), Scalar: n.name} }
func (n *Null) Key() Key  { return Key{Tag: KindNull.String()} }

func (u *UnaryNode) Key() Key {
	return notKey(u.Child.Key())
}

// Key of a logic node is the sorted key list of its flattened terms, which
// makes AND/OR commutative and associative under key equality.
func (b *BinaryNode) Key() Key {
	if b.Op.IsLogic() {
		terms := flattenLogic(b.Op, b.Left, b.Right)
		sortTerms(terms)
		kids := make([]Key, len(terms))
		for i, t := range terms {
			kids[i] = t.key
		}
		return Key{Tag: b.Op.Kind().String(), Kids: kids}
	}
	return Key{Tag: b.Op.Kind().String(), Kids: []Key{b.Left.Key(), b.Right.Key()}}
}

// Children

func (c *Const) Children() []Expr      { return nil }
func (n *Name) Children() []Expr       { return nil }
func (n *Null) Children() []Expr       { return nil }
func (u *UnaryNode) Children() []Expr  { return []Expr{u.Child} }
func (b *BinaryNode) Children() []Expr { return []Expr{b.Right, b.Left} }

// Equal reports whether a and b are structurally equal.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Lang() == b.Lang() && a.Key().Equal(b.Key())
}

// IsTrue reports whether e is the boolean constant true.
func IsTrue(e Expr) bool {
	c, ok := e.(*Const)
	return ok && c.typ == ConstBool && c.b
}

// IsFalse reports whether e is the boolean constant false.
func IsFalse(e Expr) bool {
	c, ok := e.(*Const)
	return ok && c.typ == ConstBool && !c.b
}

// IsNull reports whether e is a Null sentinel.
func IsNull(e Expr) bool {
	_, ok := e.(*Null)
	return ok
}

// IsNot reports whether e is a negation, returning its operand.
func IsNot(e Expr) (Expr, bool) {
	u, ok := e.(*UnaryNode)
	if !ok || u.Op != OpNot {
		return nil, false
	}
	return u.Child, true
}

// IsNegationPair reports whether one of a, b is the negation of the other.
func IsNegationPair(a, b Expr) bool {
	ak, bk := a.Key(), b.Key()
	return ak.Equal(notKey(bk)) || bk.Equal(notKey(ak))
}
