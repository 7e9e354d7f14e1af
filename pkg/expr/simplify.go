package expr

// Simplify applies the rewrite rules to e and returns an equivalent tree.
// Children are simplified first, so a single call reaches a fixed point:
// Simplify(Simplify(e)) has the same key as Simplify(e).
func Simplify(e Expr) Expr {
	switch n := e.(type) {
	case *Const, *Name, *Null:
		return e

	case *UnaryNode:
		return simplifyUnary(n.lang, Simplify(n.Child))

	case *BinaryNode:
		return simplifyBinary(n.lang, n.Op, Simplify(n.Left), Simplify(n.Right))

	default:
		return e
	}
}

// simplifyUnary negates an already simplified child.
func simplifyUnary(l *Language, child Expr) Expr {
	if IsNull(child) {
		return child
	}
	return simplifyNot(l, child)
}

// simplifyBinary combines already simplified operands with op.
func simplifyBinary(l *Language, op BinaryOp, left, right Expr) Expr {
	if IsNull(left) {
		return right
	}
	if IsNull(right) {
		return left
	}

	switch op {
	case OpAnd, OpOr:
		return simplifyLogic(l, op, left, right)
	case OpAdd:
		return simplifyAdd(l, left, right)
	case OpSub:
		return simplifySub(l, left, right)
	case OpMul:
		return simplifyMul(l, left, right)
	case OpDiv:
		return simplifyDiv(l, left, right)
	}
	return &BinaryNode{lang: l, Op: op, Left: left, Right: right}
}

// term pairs an expression with its precomputed key.
type term struct {
	expr Expr
	key  Key
	ks   string
}

func newTerm(e Expr) term {
	k := e.Key()
	return term{expr: e, key: k, ks: k.String()}
}

func sortTerms(ts []term) {
	// insertion sort keeps equal keys stable and the lists are short
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j].key.Compare(ts[j-1].key) < 0; j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

// rebuildSorted sorts terms by key and folds them left-associatively with op.
// An empty list yields empty; a single term is returned unwrapped.
func rebuildSorted(l *Language, op BinaryOp, ts []term, empty Expr) Expr {
	if len(ts) == 0 {
		return empty
	}
	sorted := make([]term, len(ts))
	copy(sorted, ts)
	sortTerms(sorted)
	return foldTerms(l, op, sorted)
}

func foldTerms(l *Language, op BinaryOp, ts []term) Expr {
	acc := ts[0].expr
	for _, t := range ts[1:] {
		acc = &BinaryNode{lang: l, Op: op, Left: acc, Right: t.expr}
	}
	return acc
}
