package expr

import (
	"math"
	"math/big"
	"sort"
)

// Arithmetic is integer-only. Constants fold only with constants of the same
// type (int with int, hex with hex); anything else is carried through. A fold
// whose exact result does not fit in int64 is not performed.

func intConst(e Expr) (*Const, bool) {
	c, ok := e.(*Const)
	if !ok || !c.IsInteger() {
		return nil, false
	}
	return c, true
}

func (l *Language) typedInt(typ ConstType, v int64) *Const {
	if typ == ConstHex {
		return l.Hex(v)
	}
	return l.Int(v)
}

// zeroLike returns 0 typed like e when e is an integer constant, else Int(0).
func zeroLike(l *Language, e Expr) *Const {
	if c, ok := intConst(e); ok {
		return l.typedInt(c.typ, 0)
	}
	return l.Int(0)
}

func flattenArith(op BinaryOp, a, b Expr) []Expr {
	var out []Expr
	var walk func(Expr)
	walk = func(e Expr) {
		if n, ok := e.(*BinaryNode); ok && n.Op == op {
			walk(n.Left)
			walk(n.Right)
			return
		}
		out = append(out, e)
	}
	walk(a)
	if b != nil {
		walk(b)
	}
	return out
}

// extractCoeffBase splits c * base into (c, base). The product of the int
// (not hex) factors is the coefficient; the remaining factors, in order,
// form the base.
func extractCoeffBase(l *Language, e Expr) (int64, Expr, bool) {
	n, ok := e.(*BinaryNode)
	if !ok || n.Op != OpMul {
		return 0, nil, false
	}
	coeff := big.NewInt(1)
	found := false
	var rest []Expr
	for _, f := range flattenArith(OpMul, n.Left, n.Right) {
		if c, ok := intConst(f); ok && c.typ == ConstInt {
			coeff.Mul(coeff, big.NewInt(c.i))
			found = true
			continue
		}
		rest = append(rest, f)
	}
	if !found || len(rest) == 0 || !coeff.IsInt64() {
		return 0, nil, false
	}
	base := rest[0]
	for _, f := range rest[1:] {
		base = &BinaryNode{lang: l, Op: OpMul, Left: base, Right: f}
	}
	return coeff.Int64(), base, true
}

// constFolds collects integer constants per type so int and hex constants
// never mix.
type constFolds struct {
	ints, hexes []*Const
}

func (cf *constFolds) take(c *Const) {
	if c.typ == ConstHex {
		cf.hexes = append(cf.hexes, c)
		return
	}
	cf.ints = append(cf.ints, c)
}

// hasZero reports whether any collected constant is 0.
func (cf *constFolds) hasZero() bool {
	for _, group := range [][]*Const{cf.ints, cf.hexes} {
		for _, c := range group {
			if c.i == 0 {
				return true
			}
		}
	}
	return false
}

// consts folds each group with op and returns the results, int before hex,
// omitting those equal to skip.
func (cf *constFolds) consts(l *Language, op BinaryOp, skip int64) []term {
	var out []term
	for _, group := range [][]*Const{cf.ints, cf.hexes} {
		for _, c := range foldExact(l, op, group) {
			if c.i != skip {
				out = append(out, newTerm(c))
			}
		}
	}
	return out
}

// zero returns 0 typed after the collected constants, int preferred.
func (cf *constFolds) zero(l *Language) *Const {
	if len(cf.ints) == 0 && len(cf.hexes) > 0 {
		return l.Hex(0)
	}
	return l.Int(0)
}

// foldExact sums or multiplies same-typed constants. When the exact result
// overflows int64 the constants are returned unfolded, ordered by value.
func foldExact(l *Language, op BinaryOp, cs []*Const) []*Const {
	if len(cs) == 0 {
		return nil
	}
	acc := big.NewInt(cs[0].i)
	for _, c := range cs[1:] {
		if op == OpMul {
			acc.Mul(acc, big.NewInt(c.i))
		} else {
			acc.Add(acc, big.NewInt(c.i))
		}
	}
	if acc.IsInt64() {
		return []*Const{l.typedInt(cs[0].typ, acc.Int64())}
	}
	out := append([]*Const(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].i < out[j].i })
	return out
}

func subInt(a, b int64) (int64, bool) {
	d := a - b
	if (b > 0 && d > a) || (b < 0 && d < a) {
		return 0, false
	}
	return d, true
}

func divInt(a, b int64) (int64, bool) {
	if b == 0 || (a == math.MinInt64 && b == -1) {
		return 0, false
	}
	return a / b, true
}

// linearTerm accumulates coeff * base. parts keeps each contribution so a
// coefficient that overflows int64 can be emitted piecewise.
type linearTerm struct {
	base  Expr
	coeff *big.Int
	parts []int64
}

func simplifyAdd(l *Language, left, right Expr) Expr {
	return addTerms(l, flattenArith(OpAdd, left, right))
}

// addTerms collects constants and linear terms of a flattened sum.
func addTerms(l *Language, items []Expr) Expr {
	var sums constFolds
	linear := make(map[string]*linearTerm)
	var order []string
	var others []term

	addLinear := func(base Expr, coeff int64) {
		ks := base.Key().String()
		lt, ok := linear[ks]
		if !ok {
			lt = &linearTerm{base: base, coeff: new(big.Int)}
			linear[ks] = lt
			order = append(order, ks)
		}
		lt.coeff.Add(lt.coeff, big.NewInt(coeff))
		lt.parts = append(lt.parts, coeff)
	}

	for _, t := range items {
		if c, ok := t.(*Const); ok {
			if c.IsInteger() {
				sums.take(c)
				continue
			}
			others = append(others, newTerm(t))
			continue
		}
		if coeff, base, ok := extractCoeffBase(l, t); ok {
			addLinear(base, coeff)
			continue
		}
		addLinear(t, 1)
	}

	// A sum used as a base can resurface unscaled; its operands then
	// belong to this sum.
	nested := false
	parts := others
	for _, ks := range order {
		lt := linear[ks]
		coeffs := lt.parts
		if lt.coeff.IsInt64() {
			coeffs = []int64{lt.coeff.Int64()}
		}
		for _, coeff := range coeffs {
			for _, e := range scaled(l, lt.base, coeff) {
				if b, ok := e.(*BinaryNode); ok && b.Op == OpAdd {
					nested = true
				}
				parts = append(parts, newTerm(e))
			}
		}
	}
	if nested {
		var flat []Expr
		for _, c := range sums.consts(l, OpAdd, 0) {
			flat = append(flat, c.expr)
		}
		for _, p := range parts {
			flat = append(flat, flattenArith(OpAdd, p.expr, nil)...)
		}
		return addTerms(l, flat)
	}

	sortTerms(parts)
	parts = append(sums.consts(l, OpAdd, 0), parts...)

	if len(parts) == 0 {
		return sums.zero(l)
	}
	return foldTerms(l, OpAdd, parts)
}

// scaled expresses coeff * base. Without a Mul binding it degrades to
// repeated addition of base.
func scaled(l *Language, base Expr, coeff int64) []Expr {
	switch {
	case coeff == 0:
		return nil
	case coeff == 1:
		return []Expr{base}
	case l.Supports(OpMul):
		return []Expr{simplifyMul(l, l.Int(coeff), base)}
	case coeff > 1:
		out := make([]Expr, coeff)
		for i := range out {
			out[i] = base
		}
		return out
	}
	// negative coefficients only come from the Sub rewrite, which needs Mul
	var acc Expr = l.Int(0)
	for i := coeff; i < 0; i++ {
		acc = &BinaryNode{lang: l, Op: OpSub, Left: acc, Right: base}
	}
	return []Expr{acc}
}

func simplifySub(l *Language, left, right Expr) Expr {
	lc, lok := intConst(left)
	rc, rok := intConst(right)

	if lok && rok && lc.typ == rc.typ {
		if d, ok := subInt(lc.i, rc.i); ok {
			return l.typedInt(lc.typ, d)
		}
	}
	if rok && rc.i == 0 {
		return left
	}
	if left.Key().Equal(right.Key()) {
		return zeroLike(l, left)
	}

	if !l.Supports(OpAdd) || !l.Supports(OpMul) {
		return &BinaryNode{lang: l, Op: OpSub, Left: left, Right: right}
	}
	return simplifyAdd(l, left, negate(l, right))
}

// negate returns -e: constants and c*base terms are negated directly,
// anything else becomes -1 * e.
func negate(l *Language, e Expr) Expr {
	if c, ok := intConst(e); ok && c.i != math.MinInt64 {
		return l.typedInt(c.typ, -c.i)
	}
	if coeff, base, ok := extractCoeffBase(l, e); ok && coeff != math.MinInt64 {
		return simplifyMul(l, l.Int(-coeff), base)
	}
	return simplifyMul(l, l.Int(-1), e)
}

func simplifyMul(l *Language, left, right Expr) Expr {
	var products constFolds
	var rest []term

	for _, f := range flattenArith(OpMul, left, right) {
		if c, ok := intConst(f); ok {
			products.take(c)
			continue
		}
		rest = append(rest, newTerm(f))
	}

	if products.hasZero() {
		return products.zero(l)
	}
	sortTerms(rest)
	consts := products.consts(l, OpMul, 1)
	if len(consts) == 0 && len(rest) == 0 {
		consts = products.consts(l, OpMul, 0)
	}
	rest = append(consts, rest...)
	if len(rest) == 1 {
		return rest[0].expr
	}
	return foldTerms(l, OpMul, rest)
}

func simplifyDiv(l *Language, left, right Expr) Expr {
	lc, lok := intConst(left)
	rc, rok := intConst(right)

	if lok && rok && lc.typ == rc.typ {
		if q, ok := divInt(lc.i, rc.i); ok {
			return l.typedInt(lc.typ, q)
		}
	}
	if rok && rc.i == 1 {
		return left
	}
	if lok && lc.i == 0 && !(rok && rc.i == 0) {
		return left
	}
	if rok && rc.typ == ConstInt && rc.i != 0 {
		if coeff, base, ok := extractCoeffBase(l, left); ok && coeff%rc.i == 0 {
			if q, ok := divInt(coeff, rc.i); ok {
				return simplifyMul(l, l.Int(q), base)
			}
		}
	}
	return &BinaryNode{lang: l, Op: OpDiv, Left: left, Right: right}
}
