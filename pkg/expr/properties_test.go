package expr_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/dslgen/pkg/expr"
	"github.com/wildfunctions/dslgen/pkg/kconfig"
	"github.com/wildfunctions/dslgen/pkg/makefile"
	"github.com/wildfunctions/dslgen/pkg/pool"
)

const propertyRounds = 300

var dialects = []*expr.Language{kconfig.Lang, makefile.Lang}

// forRandom calls f with simplified random trees from the named pool.
func forRandom(t *testing.T, poolName string, n int, f func(l *expr.Language, xs []expr.Expr)) {
	t.Helper()
	p, err := pool.Get(poolName)
	require.NoError(t, err)
	for _, l := range dialects {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < propertyRounds; i++ {
			xs := make([]expr.Expr, n)
			for j := range xs {
				xs[j] = expr.Simplify(p.RandomTree(rng, l, 4))
			}
			f(l, xs)
		}
	}
}

func assertSameKey(t *testing.T, want, got expr.Expr, context string) {
	t.Helper()
	if !expr.Equal(want, got) {
		t.Fatalf("%s:\n want %s\n got  %s", context, want.Key(), got.Key())
	}
}

func TestIdempotence(t *testing.T) {
	for _, name := range pool.Names() {
		t.Run(name, func(t *testing.T) {
			forRandom(t, name, 1, func(l *expr.Language, xs []expr.Expr) {
				assertSameKey(t, xs[0], expr.Simplify(xs[0]), "simplify twice")
			})
		})
	}
}

func TestCommutativity(t *testing.T) {
	forRandom(t, "logic", 2, func(l *expr.Language, xs []expr.Expr) {
		a, b := xs[0], xs[1]
		assertSameKey(t, expr.Must(expr.And(a, b)), expr.Must(expr.And(b, a)), "a&b vs b&a")
		assertSameKey(t, expr.Must(expr.Or(a, b)), expr.Must(expr.Or(b, a)), "a|b vs b|a")
	})
}

func TestAssociativity(t *testing.T) {
	forRandom(t, "logic", 3, func(l *expr.Language, xs []expr.Expr) {
		a, b, c := xs[0], xs[1], xs[2]
		left := expr.Must(expr.And(expr.Must(expr.And(a, b)), c))
		right := expr.Must(expr.And(a, expr.Must(expr.And(b, c))))
		assertSameKey(t, left, right, "(a&b)&c vs a&(b&c)")

		left = expr.Must(expr.Or(expr.Must(expr.Or(a, b)), c))
		right = expr.Must(expr.Or(a, expr.Must(expr.Or(b, c))))
		assertSameKey(t, left, right, "(a|b)|c vs a|(b|c)")
	})
}

func TestDoubleNegation(t *testing.T) {
	forRandom(t, "logic", 1, func(l *expr.Language, xs []expr.Expr) {
		a := xs[0]
		assertSameKey(t, a, expr.Must(expr.Not(expr.Must(expr.Not(a)))), "~~a")
	})
}

func TestDeMorgan(t *testing.T) {
	forRandom(t, "logic", 2, func(l *expr.Language, xs []expr.Expr) {
		a, b := xs[0], xs[1]
		na, nb := expr.Must(expr.Not(a)), expr.Must(expr.Not(b))

		assertSameKey(t,
			expr.Must(expr.Or(na, nb)),
			expr.Must(expr.Not(expr.Must(expr.And(a, b)))),
			"~(a&b) vs ~a|~b")
		assertSameKey(t,
			expr.Must(expr.And(na, nb)),
			expr.Must(expr.Not(expr.Must(expr.Or(a, b)))),
			"~(a|b) vs ~a&~b")
	})
}

func TestIdentityAndAnnihilator(t *testing.T) {
	forRandom(t, "mixed", 1, func(l *expr.Language, xs []expr.Expr) {
		a := xs[0]
		assertSameKey(t, a, expr.Must(expr.And(a, l.True())), "a&true")
		assertSameKey(t, a, expr.Must(expr.Or(a, l.False())), "a|false")
		assert.True(t, expr.IsFalse(expr.Must(expr.And(a, l.False()))))
		assert.True(t, expr.IsTrue(expr.Must(expr.Or(l.True(), a))))
	})
}

func TestContradictionAndTautology(t *testing.T) {
	forRandom(t, "logic", 1, func(l *expr.Language, xs []expr.Expr) {
		a := xs[0]
		na := expr.Must(expr.Not(a))
		assert.True(t, expr.IsFalse(expr.Must(expr.And(a, na))), "a & ~a for %s", a.Key())
		assert.True(t, expr.IsTrue(expr.Must(expr.Or(na, a))), "~a | a for %s", a.Key())
	})
}

// TestAbsorption checks a&(a|b) == a and a|(a&b) == a for shallow a only: a
// literal or a single connective over literals, which is what depth 2 draws.
// Absorption is matched on flattened keys, so a deeper a whose parts are
// rewritten once merged with b (another absorption, a complement, a
// distributed negation) is not guaranteed to reduce back to a.
func TestAbsorption(t *testing.T) {
	p, err := pool.Get("logic")
	require.NoError(t, err)
	for _, l := range dialects {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < propertyRounds; i++ {
			a := expr.Simplify(p.RandomTree(rng, l, 2))
			b := expr.Simplify(p.RandomTree(rng, l, 4))
			assertSameKey(t, a, expr.Must(expr.And(a, expr.Must(expr.Or(a, b)))), "a&(a|b)")
			assertSameKey(t, a, expr.Must(expr.Or(a, expr.Must(expr.And(a, b)))), "a|(a&b)")
		}
	}
}

func TestArithmeticIdempotence(t *testing.T) {
	p, err := pool.Get("arith")
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 1000; i++ {
		s := expr.Simplify(p.RandomTree(rng, makefile.Lang, 5))
		assertSameKey(t, s, expr.Simplify(s), "arith simplify twice")

		assertSameKey(t, makefile.Int(0), expr.Must(expr.Sub(s, s)), "s - s")
		assertSameKey(t, s, expr.Must(expr.Add(s, makefile.Int(0))), "s + 0")
		assertSameKey(t, s, expr.Must(expr.Mul(makefile.Int(1), s)), "1 * s")
	}
}
