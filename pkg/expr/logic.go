package expr

// identity returns the neutral constant of op: true for AND, false for OR.
func identity(l *Language, op BinaryOp) *Const {
	return l.Bool(op == OpAnd)
}

func isIdentity(op BinaryOp, e Expr) bool {
	if op == OpAnd {
		return IsTrue(e)
	}
	return IsFalse(e)
}

func isAbsorbing(op BinaryOp, e Expr) bool {
	if op == OpAnd {
		return IsFalse(e)
	}
	return IsTrue(e)
}

func flattenLogic(op BinaryOp, a, b Expr) []term {
	return flattenTerms(op, []Expr{a, b})
}

// flattenTerms collapses chains of op into a flat list, dropping the
// identity constant and duplicate keys. First occurrence wins.
func flattenTerms(op BinaryOp, roots []Expr) []term {
	var items []term
	seen := make(map[string]bool)

	var walk func(Expr)
	walk = func(e Expr) {
		if b, ok := e.(*BinaryNode); ok && b.Op == op {
			walk(b.Left)
			walk(b.Right)
			return
		}
		if isIdentity(op, e) {
			return
		}
		t := newTerm(e)
		if seen[t.ks] {
			return
		}
		seen[t.ks] = true
		items = append(items, t)
	}
	for _, r := range roots {
		walk(r)
	}
	return items
}

func simplifyNot(l *Language, c Expr) Expr {
	if IsTrue(c) {
		return l.False()
	}
	if IsFalse(c) {
		return l.True()
	}
	if inner, ok := IsNot(c); ok {
		return inner
	}
	// De Morgan
	if b, ok := c.(*BinaryNode); ok && b.Op.IsLogic() {
		left := simplifyNot(l, b.Left)
		right := simplifyNot(l, b.Right)
		return simplifyLogic(l, b.Op.dual(), left, right)
	}
	return &UnaryNode{lang: l, Op: OpNot, Child: c}
}

// simplifyLogic simplifies left op right for op AND or OR. The rules are
// written for AND; OR is the dual with true and false swapped.
func simplifyLogic(l *Language, op BinaryOp, left, right Expr) Expr {
	absorbing := identity(l, op.dual())

	if isAbsorbing(op, left) || isAbsorbing(op, right) {
		return absorbing
	}
	if isIdentity(op, left) {
		return right
	}
	if isIdentity(op, right) {
		return left
	}
	if left.Key().Equal(right.Key()) {
		return left
	}
	if IsNegationPair(left, right) {
		return absorbing
	}
	if isLogicNode(left) || isLogicNode(right) {
		if dualKey(left.Key()).Equal(right.Key()) {
			return absorbing
		}
	}

	ts := flattenLogic(op, left, right)
	for {
		if containsAbsorbing(op, ts) || hasComplement(ts) {
			return absorbing
		}
		ts = absorb(op, ts)

		next, changed := absorbNegated(l, op, ts)
		if !changed {
			break
		}
		ts = flattenTerms(op, next)
	}

	return rebuildSorted(l, op, ts, identity(l, op))
}

func isLogicNode(e Expr) bool {
	b, ok := e.(*BinaryNode)
	return ok && b.Op.IsLogic()
}

func containsAbsorbing(op BinaryOp, ts []term) bool {
	for _, t := range ts {
		if isAbsorbing(op, t.expr) {
			return true
		}
	}
	return false
}

// hasComplement reports whether the list holds both X and not X.
func hasComplement(ts []term) bool {
	keys := make(map[string]bool, len(ts))
	for _, t := range ts {
		keys[t.ks] = true
	}
	for _, t := range ts {
		if inner, ok := IsNot(t.expr); ok && keys[inner.Key().String()] {
			return true
		}
	}
	return false
}

// termSet returns the key strings of the operands of t when t is an op
// node, or the key of t itself otherwise.
func termSet(op BinaryOp, t term) map[string]bool {
	set := make(map[string]bool)
	if b, ok := t.expr.(*BinaryNode); ok && b.Op == op {
		for _, sub := range flattenLogic(op, b.Left, b.Right) {
			set[sub.ks] = true
		}
		return set
	}
	set[t.ks] = true
	return set
}

func subset(a, b map[string]bool) bool {
	if len(a) > len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// absorb drops every dual-op term implied by the others:
// X and (X or Y) -> X, (X or Y) and (X or Y or Z) -> (X or Y), and
// X and Y and ((X and Y) or Z) -> X and Y.
func absorb(op BinaryOp, ts []term) []term {
	if len(ts) < 2 {
		return ts
	}
	dual := op.dual()
	sets := make([]map[string]bool, len(ts))
	top := make(map[string]bool, len(ts))
	for i, t := range ts {
		sets[i] = termSet(dual, t)
		top[t.ks] = true
	}

	kept := make([]term, 0, len(ts))
	for i, t := range ts {
		b, ok := t.expr.(*BinaryNode)
		if !ok || b.Op != dual {
			kept = append(kept, t)
			continue
		}
		absorbed := false
		for j := range ts {
			if j != i && subset(sets[j], sets[i]) {
				absorbed = true
				break
			}
		}
		if !absorbed {
			// some operand of t already holds given the other terms
			for _, sub := range flattenLogic(dual, b.Left, b.Right) {
				if subset(termSet(op, sub), top) {
					absorbed = true
					break
				}
			}
		}
		if !absorbed {
			kept = append(kept, t)
		}
	}
	return kept
}

// absorbNegated removes from each dual-op term the operands contradicted by
// a sibling term: X and (not X or Y) -> X and Y, and
// (not X) and (X or Y) -> (not X) and Y.
func absorbNegated(l *Language, op BinaryOp, ts []term) ([]Expr, bool) {
	if len(ts) < 2 {
		return nil, false
	}
	dual := op.dual()

	pos := make(map[string]bool)
	neg := make(map[string]bool)
	for _, t := range ts {
		if inner, ok := IsNot(t.expr); ok {
			neg[inner.Key().String()] = true
		} else {
			pos[t.ks] = true
		}
	}

	out := make([]Expr, 0, len(ts))
	changed := false
	for _, t := range ts {
		b, ok := t.expr.(*BinaryNode)
		if !ok || b.Op != dual {
			out = append(out, t.expr)
			continue
		}
		subs := flattenLogic(dual, b.Left, b.Right)
		kept := make([]term, 0, len(subs))
		for _, s := range subs {
			if inner, ok := IsNot(s.expr); ok && pos[inner.Key().String()] {
				continue
			}
			if neg[s.ks] {
				continue
			}
			kept = append(kept, s)
		}
		if len(kept) == len(subs) {
			out = append(out, t.expr)
			continue
		}
		changed = true
		out = append(out, rebuildSorted(l, dual, kept, identity(l, dual)))
	}
	return out, changed
}
