package engine

import (
	"sync"

	"github.com/wildfunctions/dslgen/pkg/expr"
)

// commutative lists the operators checked for a op b == b op a.
var commutative = []expr.BinaryOp{expr.OpAnd, expr.OpOr, expr.OpAdd, expr.OpMul}

type checkJob struct {
	idx  int
	lang *expr.Language
	a, b expr.Expr
}

type checkResult struct {
	checks   int
	before   int
	after    int
	failures []PropertyFailure
}

// selfCheck draws cfg.SelfCheck random tree pairs per registered language
// and verifies idempotence, commutativity and double negation on them. Trees
// are drawn serially so a seed reproduces the run; checking is parallel.
func (e *Engine) selfCheck() (*SelfCheckReport, error) {
	var jobs []checkJob
	var langs []string
	for _, name := range expr.Languages() {
		l, err := expr.Lookup(name)
		if err != nil {
			return nil, err
		}
		langs = append(langs, name)
		for i := 0; i < e.cfg.SelfCheck; i++ {
			a := e.pool.RandomTree(e.rng, l, e.cfg.MaxDepth)
			b := e.pool.RandomTree(e.rng, l, e.cfg.MaxDepth)
			jobs = append(jobs, checkJob{idx: len(jobs), lang: l, a: a, b: b})
		}
	}

	results := make([]checkResult, len(jobs))
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	queue := make(chan checkJob, len(jobs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results[j.idx] = checkPair(j.lang, j.a, j.b)
			}
		}()
	}
	for _, j := range jobs {
		queue <- j
	}
	close(queue)
	wg.Wait()

	report := &SelfCheckReport{
		Pool:      e.pool.Name(),
		Seed:      e.seed,
		Languages: langs,
		Trees:     2 * len(jobs),
	}
	for _, r := range results {
		report.Checks += r.checks
		report.NodesBefore += r.before
		report.NodesAfter += r.after
		report.Failures = append(report.Failures, r.failures...)
	}

	e.logger.Info("self check finished",
		"pool", report.Pool, "seed", report.Seed, "trees", report.Trees,
		"checks", report.Checks, "failures", len(report.Failures))
	for _, f := range report.Failures {
		e.logger.Debug("property violated",
			"language", f.Language, "property", f.Property, "input", f.Input, "want", f.Want, "got", f.Got)
	}
	return report, nil
}

// treeProperty is a property of the simplified form of a single tree. apply
// returns the tree that should have the same key as the simplified input.
type treeProperty struct {
	name  string
	apply func(s expr.Expr) (expr.Expr, error)
}

var treeProperties = []treeProperty{
	{"idempotence", func(s expr.Expr) (expr.Expr, error) { return expr.Simplify(s), nil }},
	{"double negation", func(s expr.Expr) (expr.Expr, error) {
		n, err := expr.Not(s)
		if err != nil {
			return nil, err
		}
		return expr.Not(n)
	}},
}

func (p treeProperty) holds(t expr.Expr) bool {
	s := expr.Simplify(t)
	got, err := p.apply(s)
	return err == nil && expr.Equal(s, got)
}

// shrink returns the smallest subtree of t that still fails, descending into
// the first failing child at each level.
func shrink(t expr.Expr, fails func(expr.Expr) bool) expr.Expr {
	for {
		next := t
		for _, c := range t.Children() {
			if fails(c) {
				next = c
				break
			}
		}
		if next == t {
			return t
		}
		t = next
	}
}

func newFailure(l *expr.Language, property string, input, want, got expr.Expr, err error) PropertyFailure {
	f := PropertyFailure{
		Language: l.LangName(),
		Property: property,
		Input:    input.Key().String(),
		Want:     want.Key().String(),
	}
	if err != nil {
		f.Got = err.Error()
	} else {
		f.Got = got.Key().String()
	}
	return f
}

func checkPair(l *expr.Language, a, b expr.Expr) checkResult {
	var r checkResult

	r.before = a.NodeCount() + b.NodeCount()
	sa, sb := expr.Simplify(a), expr.Simplify(b)
	r.after = sa.NodeCount() + sb.NodeCount()

	for _, t := range []expr.Expr{a, b} {
		for _, p := range treeProperties {
			r.checks++
			if p.holds(t) {
				continue
			}
			t := shrink(t, func(x expr.Expr) bool { return !p.holds(x) })
			s := expr.Simplify(t)
			got, err := p.apply(s)
			r.failures = append(r.failures, newFailure(l, p.name, t, s, got, err))
		}
	}

	for _, op := range commutative {
		if !l.Supports(op) {
			continue
		}
		r.checks++
		ab, err := expr.Apply(op, sa, sb)
		if err != nil {
			r.failures = append(r.failures, newFailure(l, op.String()+" commutativity", sa, sa, nil, err))
			continue
		}
		ba, err := expr.Apply(op, sb, sa)
		if err != nil || !expr.Equal(ab, ba) {
			r.failures = append(r.failures, newFailure(l, op.String()+" commutativity", ab, ab, ba, err))
		}
	}
	return r
}
