package pool

import (
	"math/rand"

	"github.com/wildfunctions/dslgen/pkg/expr"
)

func init() {
	Register("mixed", func() Pool { return &MixedPool{} })
}

// MixedPool combines the logic and arith building blocks.
type MixedPool struct{}

func (p *MixedPool) Name() string { return "mixed" }

func (p *MixedPool) RandomLeaf(rng *rand.Rand, l *expr.Language) expr.Expr {
	r := rng.Float64()
	switch {
	case r < 0.1:
		return l.Bool(rng.Intn(2) == 0)
	case r < 0.3:
		return l.Int(int64(rng.Intn(4)))
	case r < 0.65:
		return l.MustName(pick(rng, logicNames))
	default:
		return l.MustName(pick(rng, arithNames))
	}
}

var mixedBinary = []expr.BinaryOp{
	expr.OpAnd, expr.OpOr, expr.OpAnd, expr.OpOr,
	expr.OpAdd, expr.OpSub, expr.OpMul, expr.OpDiv,
}

func (p *MixedPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return pick(rng, mixedBinary)
}

func (p *MixedPool) RandomTree(rng *rand.Rand, l *expr.Language, maxDepth int) expr.Expr {
	return randomTree(p, rng, l, maxDepth)
}
