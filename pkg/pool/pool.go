package pool

import (
	"math/rand"
	"sort"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
)

// Pool provides random building blocks for constructing expression trees
// in a given language.
type Pool interface {
	Name() string
	RandomLeaf(rng *rand.Rand, l *expr.Language) expr.Expr
	RandomBinary(rng *rand.Rand) expr.BinaryOp
	RandomTree(rng *rand.Rand, l *expr.Language, maxDepth int) expr.Expr
}

var registry = map[string]func() Pool{}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() Pool) {
	registry[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (Pool, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Errorf(errors.KindConfig, "unknown pool: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered pool names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// randomTree builds an unsimplified tree. Operators the language does not
// bind are replaced with AND so every pool works with every language.
func randomTree(p Pool, rng *rand.Rand, l *expr.Language, maxDepth int) expr.Expr {
	if maxDepth <= 1 {
		return p.RandomLeaf(rng, l)
	}
	r := rng.Float64()
	switch {
	case r < 0.3:
		return p.RandomLeaf(rng, l)
	case r < 0.5:
		n, err := expr.NewNot(randomTree(p, rng, l, maxDepth-1))
		if err != nil {
			return p.RandomLeaf(rng, l)
		}
		return n
	default:
		op := p.RandomBinary(rng)
		if !l.Supports(op) {
			op = expr.OpAnd
		}
		b, err := expr.NewBinary(op,
			randomTree(p, rng, l, maxDepth-1),
			randomTree(p, rng, l, maxDepth-1))
		if err != nil {
			return p.RandomLeaf(rng, l)
		}
		return b
	}
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.Intn(len(xs))]
}
