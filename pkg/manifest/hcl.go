package manifest

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/wildfunctions/dslgen/pkg/errors"
)

// HCL mirrors of the manifest types. Conditions arrive as cty values:
//
//	symbol "DEBUG" {
//	  type       = "bool"
//	  depends_on = { all = ["A", { not = "B" }] }
//	}
type hclManifest struct {
	Name      string        `hcl:"name,optional"`
	Sources   []string      `hcl:"source,optional"`
	Includes  []string      `hcl:"include,optional"`
	Symbols   []hclSymbol   `hcl:"symbol,block"`
	Menus     []hclMenu     `hcl:"menu,block"`
	Choices   []hclChoice   `hcl:"choice,block"`
	Variables []hclVariable `hcl:"variable,block"`
	Rules     []hclRule     `hcl:"rule,block"`
}

type hclSymbol struct {
	Name       string       `hcl:"name,label"`
	Type       string       `hcl:"type,optional"`
	Prompt     string       `hcl:"prompt,optional"`
	MenuConfig bool         `hcl:"menuconfig,optional"`
	Defaults   []hclDefault `hcl:"default,block"`
	DependsOn  cty.Value    `hcl:"depends_on,optional"`
	Selects    []hclSelect  `hcl:"select,block"`
	Help       string       `hcl:"help,optional"`
}

type hclDefault struct {
	Value cty.Value `hcl:"value"`
	When  cty.Value `hcl:"when,optional"`
}

type hclSelect struct {
	Symbol string    `hcl:"symbol,label"`
	When   cty.Value `hcl:"when,optional"`
}

type hclMenu struct {
	Title   string      `hcl:"title,label"`
	When    cty.Value   `hcl:"when,optional"`
	Symbols []hclSymbol `hcl:"symbol,block"`
}

type hclChoice struct {
	Prompt  string      `hcl:"prompt,label"`
	Symbols []hclSymbol `hcl:"symbol,block"`
}

type hclVariable struct {
	Name  string    `hcl:"name,label"`
	Op    string    `hcl:"op,optional"`
	Value string    `hcl:"value,optional"`
	Expr  cty.Value `hcl:"expr,optional"`
	When  cty.Value `hcl:"when,optional"`
}

type hclRule struct {
	Targets   []string  `hcl:"targets"`
	Op        string    `hcl:"op,optional"`
	Prereqs   []string  `hcl:"prereqs,optional"`
	OrderOnly []string  `hcl:"order_only,optional"`
	Recipe    []string  `hcl:"recipe,optional"`
	Phony     bool      `hcl:"phony,optional"`
	When      cty.Value `hcl:"when,optional"`
}

// ParseHCL decodes an HCL manifest. filename is used in diagnostics.
func ParseHCL(data []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, errors.KindConfig, "failed to parse HCL manifest")
	}

	var raw hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, errors.Wrap(diags, errors.KindConfig, "failed to decode HCL manifest")
	}
	return raw.convert()
}

func (h *hclManifest) convert() (*Manifest, error) {
	m := &Manifest{
		Name:     h.Name,
		Sources:  h.Sources,
		Includes: h.Includes,
	}

	var err error
	if m.Symbols, err = convertSymbols(h.Symbols); err != nil {
		return nil, err
	}
	for _, hm := range h.Menus {
		menu := Menu{Title: hm.Title}
		if menu.When, err = condFromCty(hm.When); err != nil {
			return nil, errors.Attr(err, "menu", hm.Title)
		}
		if menu.Symbols, err = convertSymbols(hm.Symbols); err != nil {
			return nil, err
		}
		m.Menus = append(m.Menus, menu)
	}
	for _, hc := range h.Choices {
		choice := Choice{Prompt: hc.Prompt}
		if choice.Symbols, err = convertSymbols(hc.Symbols); err != nil {
			return nil, err
		}
		m.Choices = append(m.Choices, choice)
	}

	for _, hv := range h.Variables {
		v := Variable{Name: hv.Name, Op: hv.Op, Value: hv.Value}
		if v.Expr, err = condFromCty(hv.Expr); err != nil {
			return nil, errors.Attr(err, "variable", hv.Name)
		}
		if v.When, err = condFromCty(hv.When); err != nil {
			return nil, errors.Attr(err, "variable", hv.Name)
		}
		m.Variables = append(m.Variables, v)
	}
	for _, hr := range h.Rules {
		r := Rule{
			Targets:   hr.Targets,
			Op:        hr.Op,
			Prereqs:   hr.Prereqs,
			OrderOnly: hr.OrderOnly,
			Recipe:    hr.Recipe,
			Phony:     hr.Phony,
		}
		if r.When, err = condFromCty(hr.When); err != nil {
			return nil, errors.Attr(err, "rule", hr.Targets)
		}
		m.Rules = append(m.Rules, r)
	}
	return m, nil
}

func convertSymbols(in []hclSymbol) ([]Symbol, error) {
	var out []Symbol
	for _, hs := range in {
		s := Symbol{
			Name:       hs.Name,
			Type:       hs.Type,
			Prompt:     hs.Prompt,
			MenuConfig: hs.MenuConfig,
			Help:       hs.Help,
		}
		var err error
		if s.DependsOn, err = condFromCty(hs.DependsOn); err != nil {
			return nil, errors.Attr(err, "symbol", hs.Name)
		}
		for _, hd := range hs.Defaults {
			d := Default{}
			if d.Value, err = condFromCty(hd.Value); err != nil {
				return nil, errors.Attr(err, "symbol", hs.Name)
			}
			if d.When, err = condFromCty(hd.When); err != nil {
				return nil, errors.Attr(err, "symbol", hs.Name)
			}
			s.Defaults = append(s.Defaults, d)
		}
		for _, hsel := range hs.Selects {
			sel := Select{Symbol: hsel.Symbol}
			if sel.When, err = condFromCty(hsel.When); err != nil {
				return nil, errors.Attr(err, "symbol", hs.Name)
			}
			s.Selects = append(s.Selects, sel)
		}
		out = append(out, s)
	}
	return out, nil
}

// condFromCty converts an HCL value into a condition. A null value is an
// absent condition.
func condFromCty(v cty.Value) (*Cond, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, condError("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return newCond("", v.AsString(), nil)
	case ty == cty.Bool:
		return newCond("", v.True(), nil)
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if !bf.IsInt() {
			return nil, condError("number %s is not an integer", bf.String())
		}
		i, acc := bf.Int64()
		if acc != 0 {
			return nil, condError("number %s overflows int64", bf.String())
		}
		return newCond("", i, nil)
	case ty.IsObjectType() || ty.IsMapType():
	default:
		return nil, condError("unsupported value of type %s", ty.FriendlyName())
	}

	entries := v.AsValueMap()
	if len(entries) != 1 {
		return nil, condError("expected a single-key object, got %d keys", len(entries))
	}
	for op, arg := range entries {
		switch op {
		case OpStr, OpHex:
			if arg.IsNull() || arg.Type() != cty.String {
				return nil, condError("%s expects a string", op)
			}
			return newCond(op, arg.AsString(), nil)
		case OpNull:
			return newCond(op, nil, nil)
		}

		items := []cty.Value{arg}
		if at := arg.Type(); at.IsTupleType() || at.IsListType() {
			items = arg.AsValueSlice()
		}
		args := make([]*Cond, 0, len(items))
		for _, item := range items {
			sub, err := condFromCty(item)
			if err != nil {
				return nil, err
			}
			if sub == nil {
				return nil, condError("%s operand is null", op)
			}
			args = append(args, sub)
		}
		return newCond(op, nil, args)
	}
	return nil, nil
}
