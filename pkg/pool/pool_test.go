package pool

import (
	"math/rand"
	"testing"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
	"github.com/wildfunctions/dslgen/pkg/kconfig"
	"github.com/wildfunctions/dslgen/pkg/makefile"
)

var testLangs = []*expr.Language{kconfig.Lang, makefile.Lang}

// walk visits every node of e.
func walk(e expr.Expr, visit func(expr.Expr)) {
	visit(e)
	for _, c := range e.Children() {
		walk(c, visit)
	}
}

func TestPoolsRegistered(t *testing.T) {
	names := Names()
	want := []string{"arith", "logic", "mixed"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if _, err := Get("nope"); !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("expected config error for unknown pool, got %v", err)
	}
}

func TestTreesRespectLanguage(t *testing.T) {
	for _, name := range Names() {
		p, err := Get(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, l := range testLangs {
			rng := rand.New(rand.NewSource(42))
			for i := 0; i < 500; i++ {
				tree := p.RandomTree(rng, l, 4)
				if tree.Depth() > 4 {
					t.Fatalf("%s/%s: depth %d exceeds 4: %s", name, l, tree.Depth(), tree)
				}
				walk(tree, func(e expr.Expr) {
					if e.Lang() != l {
						t.Fatalf("%s/%s: node from %s", name, l, e.Lang())
					}
					if b, ok := e.(*expr.BinaryNode); ok && !l.Supports(b.Op) {
						t.Fatalf("%s/%s: unsupported operator %s", name, l, b.Op)
					}
				})
			}
		}
	}
}

func TestLogicPoolHasNoArithmetic(t *testing.T) {
	p, _ := Get("logic")
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		walk(p.RandomTree(rng, makefile.Lang, 4), func(e expr.Expr) {
			if b, ok := e.(*expr.BinaryNode); ok && !b.Op.IsLogic() {
				t.Fatalf("logic pool produced %s", b.Op)
			}
			if c, ok := e.(*expr.Const); ok && c.Type() != expr.ConstBool {
				t.Fatalf("logic pool produced %s constant", c.Type())
			}
		})
	}
}

func TestArithPoolHasNoNegation(t *testing.T) {
	p, _ := Get("arith")
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		walk(p.RandomTree(rng, makefile.Lang, 4), func(e expr.Expr) {
			if e.Kind() == expr.KindNot {
				t.Fatalf("arith pool produced a negation")
			}
		})
	}
}

func TestRandomTreesSimplify(t *testing.T) {
	p, _ := Get("mixed")
	for _, l := range testLangs {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 1000; i++ {
			tree := p.RandomTree(rng, l, 5)
			s := expr.Simplify(tree)
			if s.Lang() != l {
				t.Fatalf("simplified %s tree moved to %s", l, s.Lang())
			}
			if s.String() == "" && !expr.IsFalse(s) && !expr.IsNull(s) {
				t.Errorf("empty rendering of %s", s.Key())
			}
		}
	}
}
