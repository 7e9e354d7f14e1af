package makefile

import (
	"strings"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/expr"
	"github.com/wildfunctions/dslgen/pkg/render"
)

// Margin separates top-level statements.
var Margin render.Node = render.BlankLine(1)

func checkLang(e expr.Expr) error {
	if e.Lang() != Lang {
		err := errors.Errorf(errors.KindDialectMismatch, "expected make expression, got %s", e.Lang())
		return errors.Attr(err, "language", e.Lang().LangName())
	}
	return nil
}

// AssignOp is a variable assignment operator.
type AssignOp string

const (
	Set          AssignOp = "="
	SetImmediate AssignOp = ":="
	SetDefault   AssignOp = "?="
	Append       AssignOp = "+="
)

func (op AssignOp) valid() bool {
	switch op {
	case Set, SetImmediate, SetDefault, Append:
		return true
	}
	return false
}

// Assignment is `NAME op VALUE`.
type Assignment struct {
	Name  *expr.Name
	Op    AssignOp
	Value expr.Expr
}

// Assign builds an assignment. A nil value assigns the empty string.
func Assign(name *expr.Name, op AssignOp, value expr.Expr) (*Assignment, error) {
	if name == nil {
		return nil, errors.New(errors.KindInvalidLiteral, "assignment needs a variable")
	}
	if !op.valid() {
		return nil, errors.Attr(errors.Errorf(errors.KindInvalidLiteral, "invalid assignment operator %q", string(op)), "value", string(op))
	}
	if err := checkLang(name); err != nil {
		return nil, err
	}
	if value != nil {
		if err := checkLang(value); err != nil {
			return nil, err
		}
	}
	return &Assignment{Name: name, Op: op, Value: value}, nil
}

func (a *Assignment) Lines() []string {
	line := a.Name.Name() + " " + string(a.Op)
	if a.Value != nil {
		if v := a.Value.String(); v != "" {
			line += " " + v
		}
	}
	return []string{line}
}

// Assignments aligns the operator column of consecutive assignments.
func Assignments(as ...*Assignment) *render.WordAligned {
	children := make([]render.Node, len(as))
	for i, a := range as {
		children[i] = a
	}
	return &render.WordAligned{Children: children, Limit: 2}
}

// RuleOp separates targets from prerequisites.
type RuleOp string

const (
	Normal  RuleOp = ":"
	Double  RuleOp = "::"
	Grouped RuleOp = "&:"
)

// Rule is a target line followed by a tab-indented recipe:
//
//	targets op prereqs [| order-only]
//		recipe...
type Rule struct {
	op        RuleOp
	targets   []string
	prereqs   []string
	orderOnly []string
	recipe    []string
}

// NewRule starts a rule for the given targets.
func NewRule(op RuleOp, targets ...string) (*Rule, error) {
	switch op {
	case Normal, Double, Grouped:
	default:
		return nil, errors.Attr(errors.Errorf(errors.KindInvalidLiteral, "invalid rule operator %q", string(op)), "value", string(op))
	}
	targets = words(targets)
	if len(targets) == 0 {
		return nil, errors.New(errors.KindInvalidLiteral, "rule requires at least one target")
	}
	return &Rule{op: op, targets: targets}, nil
}

// DependsOn appends normal prerequisites.
func (r *Rule) DependsOn(prereqs ...string) *Rule {
	r.prereqs = append(r.prereqs, words(prereqs)...)
	return r
}

// After appends order-only prerequisites.
func (r *Rule) After(prereqs ...string) *Rule {
	r.orderOnly = append(r.orderOnly, words(prereqs)...)
	return r
}

// Run appends recipe lines.
func (r *Rule) Run(lines ...string) *Rule {
	r.recipe = append(r.recipe, lines...)
	return r
}

func (r *Rule) Lines() []string {
	header := strings.Join(r.targets, " ") + " " + string(r.op)
	if len(r.prereqs) > 0 {
		header += " " + strings.Join(r.prereqs, " ")
	}
	if len(r.orderOnly) > 0 {
		header += " | " + strings.Join(r.orderOnly, " ")
	}
	b := &render.Block{Begin: render.Text(header)}
	if len(r.recipe) > 0 {
		b.Append(render.Lines(r.recipe...))
	}
	return b.Lines()
}

// words drops blank entries and trims the rest.
func words(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Phony declares targets as .PHONY.
func Phony(targets ...string) *Rule {
	return &Rule{op: Normal, targets: []string{".PHONY"}, prereqs: words(targets)}
}

type branch struct {
	header string
	body   []render.Node
}

// Conditional is an ifXXX / else / endif chain. Bodies are not indented
// since a leading tab would turn them into recipe lines.
type Conditional struct {
	branches  []branch
	otherwise []render.Node
	hasElse   bool
}

func newConditional(header string, body []render.Node) *Conditional {
	return &Conditional{branches: []branch{{header: header, body: body}}}
}

// If emits body when cond expands to a non-empty string.
func If(cond expr.Expr, body ...render.Node) (*Conditional, error) {
	if cond == nil {
		return nil, errors.New(errors.KindInvalidLiteral, "nil condition")
	}
	if err := checkLang(cond); err != nil {
		return nil, err
	}
	return newConditional("ifneq ($(strip "+cond.String()+"),)", body), nil
}

// IfDef emits body when the variable is defined.
func IfDef(name *expr.Name, body ...render.Node) (*Conditional, error) {
	return nameConditional("ifdef", name, body)
}

// IfNDef emits body when the variable is undefined.
func IfNDef(name *expr.Name, body ...render.Node) (*Conditional, error) {
	return nameConditional("ifndef", name, body)
}

func nameConditional(keyword string, name *expr.Name, body []render.Node) (*Conditional, error) {
	if name == nil {
		return nil, errors.New(errors.KindInvalidLiteral, keyword+" needs a variable")
	}
	if err := checkLang(name); err != nil {
		return nil, err
	}
	return newConditional(keyword+" "+name.Name(), body), nil
}

// IfEq emits body when a and b expand to the same text.
func IfEq(a, b expr.Expr, body ...render.Node) (*Conditional, error) {
	return compareConditional("ifeq", a, b, body)
}

// IfNEq emits body when a and b expand to different text.
func IfNEq(a, b expr.Expr, body ...render.Node) (*Conditional, error) {
	return compareConditional("ifneq", a, b, body)
}

func compareConditional(keyword string, a, b expr.Expr, body []render.Node) (*Conditional, error) {
	if a == nil || b == nil {
		return nil, errors.New(errors.KindInvalidLiteral, keyword+" needs two operands")
	}
	for _, e := range []expr.Expr{a, b} {
		if err := checkLang(e); err != nil {
			return nil, err
		}
	}
	return newConditional(keyword+" ("+a.String()+","+b.String()+")", body), nil
}

// ElseIf chains the branches of next after c's branches.
func (c *Conditional) ElseIf(next *Conditional) *Conditional {
	c.branches = append(c.branches, next.branches...)
	return c
}

// Else sets the fallback body.
func (c *Conditional) Else(body ...render.Node) *Conditional {
	c.otherwise = body
	c.hasElse = true
	return c
}

func (c *Conditional) Lines() []string {
	s := render.NewStack()
	for i, br := range c.branches {
		header := br.header
		if i > 0 {
			header = "else " + header
		}
		s.Append(render.Text(header))
		s.Append(br.body...)
	}
	if c.hasElse {
		s.Append(render.Text("else"))
		s.Append(c.otherwise...)
	}
	s.Append(render.Text("endif"))
	return s.Lines()
}

// Define renders a multi-line variable.
func Define(name *expr.Name, lines ...string) (render.Node, error) {
	if name == nil {
		return nil, errors.New(errors.KindInvalidLiteral, "define needs a variable")
	}
	if err := checkLang(name); err != nil {
		return nil, err
	}
	return render.NewStack(
		render.Text("define "+name.Name()),
		render.Lines(lines...),
		render.Text("endef"),
	), nil
}

// Comment renders each line of text prefixed with "# ".
func Comment(text string) render.Node {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = "#"
		} else {
			lines[i] = "# " + l
		}
	}
	return render.Lines(lines...)
}

// Include renders `include paths...`.
func Include(paths ...string) render.Node {
	return render.Text("include " + strings.Join(words(paths), " "))
}

// SInclude renders `-include paths...`, which ignores missing files.
func SInclude(paths ...string) render.Node {
	return render.Text("-include " + strings.Join(words(paths), " "))
}

// File stacks top-level statements separated by Margin.
func File(nodes ...render.Node) *render.Stack {
	return &render.Stack{Children: nodes, Inner: Margin}
}
