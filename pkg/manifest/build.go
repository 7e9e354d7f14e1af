package manifest

import (
	"sort"
	"strings"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
	"github.com/wildfunctions/dslgen/pkg/kconfig"
	"github.com/wildfunctions/dslgen/pkg/makefile"
	"github.com/wildfunctions/dslgen/pkg/render"
)

// Kconfig builds the Kconfig document: mainmenu, sources, top-level
// symbols, menus, then choices.
func (m *Manifest) Kconfig() (render.Node, error) {
	var nodes []render.Node
	if m.Name != "" {
		nodes = append(nodes, kconfig.MainMenu(m.Name))
	}
	for _, s := range m.Sources {
		nodes = append(nodes, kconfig.Source(s))
	}

	seen := make(map[string]bool)
	entries, err := buildEntries(m.Symbols, seen)
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, entries...)

	for _, menu := range m.Menus {
		children, err := buildEntries(menu.Symbols, seen)
		if err != nil {
			return nil, errors.Attr(err, "menu", menu.Title)
		}
		if menu.When != nil {
			cond, err := menu.When.Expr(kconfig.Lang)
			if err != nil {
				return nil, errors.Attr(err, "menu", menu.Title)
			}
			if !expr.IsTrue(cond) {
				block, err := kconfig.If(cond, children...)
				if err != nil {
					return nil, err
				}
				children = []render.Node{block}
			}
		}
		nodes = append(nodes, kconfig.Menu(menu.Title, children...))
	}

	for _, choice := range m.Choices {
		alts := make([]*kconfig.Entry, 0, len(choice.Symbols))
		for _, s := range choice.Symbols {
			if s.Type != "" && s.Type != string(kconfig.TypeBool) {
				err := errors.Errorf(errors.KindConfig, "choice alternative %s must be bool, got %s", s.Name, s.Type)
				return nil, errors.Attr(err, "choice", choice.Prompt)
			}
			e, err := buildEntry(s, seen)
			if err != nil {
				return nil, errors.Attr(err, "choice", choice.Prompt)
			}
			alts = append(alts, e)
		}
		nodes = append(nodes, kconfig.Choice(choice.Prompt, alts...))
	}

	return kconfig.File(nodes...), nil
}

func buildEntries(symbols []Symbol, seen map[string]bool) ([]render.Node, error) {
	nodes := make([]render.Node, 0, len(symbols))
	for _, s := range symbols {
		e, err := buildEntry(s, seen)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, e)
	}
	return nodes, nil
}

func buildEntry(s Symbol, seen map[string]bool) (*kconfig.Entry, error) {
	name, err := kconfig.Var(s.Name)
	if err != nil {
		return nil, errors.Attr(err, "symbol", s.Name)
	}
	if seen[name.Name()] {
		err := errors.Errorf(errors.KindConfig, "symbol %s defined twice", name)
		return nil, errors.Attr(err, "symbol", s.Name)
	}
	seen[name.Name()] = true

	typ := kconfig.Type(s.Type)
	if typ == "" {
		typ = kconfig.TypeBool
	}

	var e *kconfig.Entry
	if s.MenuConfig {
		if typ != kconfig.TypeBool {
			err := errors.Errorf(errors.KindConfig, "menuconfig %s must be bool, got %s", name, typ)
			return nil, errors.Attr(err, "symbol", s.Name)
		}
		e, err = kconfig.MenuConfig(name, s.Prompt)
	} else {
		e, err = kconfig.Config(name, typ, s.Prompt)
	}
	if err != nil {
		return nil, errors.Attr(err, "symbol", s.Name)
	}

	for _, d := range s.Defaults {
		value, err := defaultValue(typ, d.Value)
		if err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
		when, err := optional(d.When, kconfig.Lang)
		if err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
		if err := e.Default(value, when); err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
	}

	if s.DependsOn != nil {
		cond, err := s.DependsOn.Expr(kconfig.Lang)
		if err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
		if err := e.DependsOn(cond); err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
	}

	for _, sel := range s.Selects {
		sym, err := kconfig.Var(sel.Symbol)
		if err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
		when, err := optional(sel.When, kconfig.Lang)
		if err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
		if err := e.Select(sym, when); err != nil {
			return nil, errors.Attr(err, "symbol", s.Name)
		}
	}

	if s.Help != "" {
		e.Help(s.Help)
	}
	return e, nil
}

// defaultValue reads plain string leaves as literals of the symbol type:
// string symbols take the text and hex symbols take 0x-prefixed text. Any
// other leaf is a name or constant.
func defaultValue(typ kconfig.Type, c *Cond) (expr.Expr, error) {
	if c == nil {
		return nil, condError("default needs a value")
	}
	if isLiteralDefault(typ, c) {
		s := c.Leaf.(string)
		if typ == kconfig.TypeString {
			return kconfig.Str(s), nil
		}
		return kconfig.Lang.ParseHex(s)
	}
	return c.Expr(kconfig.Lang)
}

func isLiteralDefault(typ kconfig.Type, c *Cond) bool {
	if c == nil || !c.IsLeaf() {
		return false
	}
	s, ok := c.Leaf.(string)
	if !ok {
		return false
	}
	switch typ {
	case kconfig.TypeString:
		return true
	case kconfig.TypeHex:
		return strings.HasPrefix(strings.ToLower(s), "0x")
	}
	return false
}

func optional(c *Cond, l *expr.Language) (expr.Expr, error) {
	if c == nil {
		return nil, nil
	}
	return c.Expr(l)
}

// Makefile builds the Makefile document: header comment, includes,
// variables, the .PHONY line, then rules. Consecutive unconditional
// assignments share one aligned block; conditional statements are wrapped in
// ifneq blocks and dropped when their condition folds to false.
func (m *Manifest) Makefile() (render.Node, error) {
	var nodes []render.Node
	if m.Name != "" {
		nodes = append(nodes, makefile.Comment(m.Name))
	}
	if len(m.Includes) > 0 {
		nodes = append(nodes, makefile.Include(m.Includes...))
	}

	var run []*makefile.Assignment
	flush := func() {
		if len(run) > 0 {
			nodes = append(nodes, makefile.Assignments(run...))
			run = nil
		}
	}
	for _, v := range m.Variables {
		a, err := buildAssignment(v)
		if err != nil {
			return nil, errors.Attr(err, "variable", v.Name)
		}
		if v.When == nil {
			run = append(run, a)
			continue
		}
		flush()
		guarded, err := guard(v.When, makefile.Assignments(a))
		if err != nil {
			return nil, errors.Attr(err, "variable", v.Name)
		}
		if guarded != nil {
			nodes = append(nodes, guarded)
		}
	}
	flush()

	var phony []string
	for _, r := range m.Rules {
		if r.Phony {
			phony = append(phony, r.Targets...)
		}
	}
	if len(phony) > 0 {
		nodes = append(nodes, makefile.Phony(phony...))
	}

	for _, r := range m.Rules {
		op := makefile.RuleOp(r.Op)
		if op == "" {
			op = makefile.Normal
		}
		rule, err := makefile.NewRule(op, r.Targets...)
		if err != nil {
			return nil, errors.Attr(err, "rule", r.Targets)
		}
		rule.DependsOn(r.Prereqs...).After(r.OrderOnly...).Run(r.Recipe...)

		if r.When == nil {
			nodes = append(nodes, rule)
			continue
		}
		guarded, err := guard(r.When, rule)
		if err != nil {
			return nil, errors.Attr(err, "rule", r.Targets)
		}
		if guarded != nil {
			nodes = append(nodes, guarded)
		}
	}

	return makefile.File(nodes...), nil
}

func buildAssignment(v Variable) (*makefile.Assignment, error) {
	name, err := makefile.Var(v.Name)
	if err != nil {
		return nil, err
	}
	op := makefile.AssignOp(v.Op)
	if op == "" {
		op = makefile.Set
	}

	var value expr.Expr
	switch {
	case v.Expr != nil && v.Value != "":
		return nil, errors.Errorf(errors.KindConfig, "variable %s sets both value and expr", v.Name)
	case v.Expr != nil:
		if value, err = v.Expr.Expr(makefile.Lang); err != nil {
			return nil, err
		}
	case v.Value != "":
		value = makefile.Str(v.Value)
	}
	return makefile.Assign(name, op, value)
}

// guard wraps body in a conditional on c. It returns nil when c folds to
// false and body itself when c folds to true.
func guard(c *Cond, body render.Node) (render.Node, error) {
	cond, err := c.Expr(makefile.Lang)
	if err != nil {
		return nil, err
	}
	switch {
	case expr.IsFalse(cond), expr.IsNull(cond):
		return nil, nil
	case expr.IsTrue(cond):
		return body, nil
	}
	wrapped, err := makefile.If(cond, body)
	if err != nil {
		return nil, err
	}
	return wrapped, nil
}

// Undefined returns the normalized Kconfig names referenced by conditions,
// defaults and selects that no symbol of the manifest defines.
func (m *Manifest) Undefined() []string {
	defined := make(map[string]bool)
	var refs []*Cond
	var selects []string
	visit := func(symbols []Symbol) {
		for _, s := range symbols {
			if n, err := kconfig.Normalize(s.Name); err == nil {
				defined[n] = true
			}
			refs = append(refs, s.DependsOn)
			for _, d := range s.Defaults {
				if !isLiteralDefault(kconfig.Type(s.Type), d.Value) {
					refs = append(refs, d.Value)
				}
				refs = append(refs, d.When)
			}
			for _, sel := range s.Selects {
				selects = append(selects, sel.Symbol)
				refs = append(refs, sel.When)
			}
		}
	}
	visit(m.Symbols)
	for _, menu := range m.Menus {
		refs = append(refs, menu.When)
		visit(menu.Symbols)
	}
	for _, choice := range m.Choices {
		visit(choice.Symbols)
	}

	for _, c := range refs {
		selects = append(selects, c.Names()...)
	}
	seen := make(map[string]bool)
	var out []string
	for _, raw := range selects {
		n, err := kconfig.Normalize(raw)
		if err != nil || defined[n] || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
