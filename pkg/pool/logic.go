package pool

import (
	"math/rand"

	"github.com/wildfunctions/dslgen/pkg/expr"
)

func init() {
	Register("logic", func() Pool { return &LogicPool{} })
}

// LogicPool draws from a handful of names and the boolean constants, and
// combines them with AND, OR and NOT.
type LogicPool struct{}

var logicNames = []string{"A", "B", "C", "D", "E"}

func (p *LogicPool) Name() string { return "logic" }

func (p *LogicPool) RandomLeaf(rng *rand.Rand, l *expr.Language) expr.Expr {
	if rng.Float64() < 0.1 {
		return l.Bool(rng.Intn(2) == 0)
	}
	return l.MustName(pick(rng, logicNames))
}

var logicBinary = []expr.BinaryOp{expr.OpAnd, expr.OpOr}

func (p *LogicPool) RandomBinary(rng *rand.Rand) expr.BinaryOp {
	return pick(rng, logicBinary)
}

func (p *LogicPool) RandomTree(rng *rand.Rand, l *expr.Language, maxDepth int) expr.Expr {
	return randomTree(p, rng, l, maxDepth)
}
