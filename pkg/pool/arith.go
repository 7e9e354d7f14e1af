package pool

import (
	"math/rand"

	"github.com/wildfunctions/dslgen/pkg/expr"
)

func init() {
	Register("arith", func() Pool { return &ArithPool{} })
}

// ArithPool uses small integers and a few names with + - * /.
type ArithPool struct{}

var arithNames = []string{"X", "Y", "Z"}

func (p *ArithPool) Name() string { return "arith" }

func (p *ArithPool) RandomLeaf(rng *rand.Rand, l *expr.Language) expr.Expr {
	if rng.Float64() < 0.45 {
		return l.Int(int64(rng.Intn(6)))
	}
	return l.MustName(pick(rng, arithNames))
}

var arithBinary = []expr.BinaryOp{expr.OpAdd, expr.OpAdd, expr.OpSub, expr.OpMul, expr.OpDiv}

func (p *ArithPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return pick(rng, arithBinary)
}

func (p *ArithPool) RandomTree(rng *rand.Rand, l *expr.Language, maxDepth int) expr.Expr {
	return randomArith(p, rng, l, maxDepth)
}

// randomArith never emits NOT so the trees stay purely arithmetic.
func randomArith(p Pool, rng *rand.Rand, l *expr.Language, maxDepth int) expr.Expr {
	if maxDepth <= 1 || rng.Float64() < 0.3 {
		return p.RandomLeaf(rng, l)
	}
	op := p.RandomBinary(rng)
	if !l.Supports(op) {
		return randomTree(p, rng, l, maxDepth)
	}
	b, err := expr.NewBinary(op,
		randomArith(p, rng, l, maxDepth-1),
		randomArith(p, rng, l, maxDepth-1))
	if err != nil {
		return p.RandomLeaf(rng, l)
	}
	return b
}
