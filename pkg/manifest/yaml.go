package manifest

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/dslgen/pkg/errors"
)

// ParseYAML decodes a YAML manifest. Unknown fields are rejected.
func ParseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.KindConfig, "empty manifest")
		}
		return nil, errors.Wrap(err, errors.KindConfig, "failed to decode YAML manifest")
	}
	return &m, nil
}

// UnmarshalYAML accepts a scalar (name, bool or integer) or a single-key map
// from an operator to one operand or a list of operands:
//
//	when: DEBUG
//	when: {all: [DEBUG, {not: RELEASE}]}
//	value: {str: "-O2"}
func (c *Cond) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := condFromYAML(n)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

func condFromYAML(n *yaml.Node) (*Cond, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return condFromYAML(n.Alias)
	case yaml.ScalarNode:
		return scalarCond(n)
	case yaml.MappingNode:
	default:
		return nil, atLine(condError("expected a scalar or a single-key map"), n)
	}

	if len(n.Content) != 2 {
		return nil, atLine(condError("expected a single-key map, got %d keys", len(n.Content)/2), n)
	}
	op, arg := n.Content[0].Value, n.Content[1]

	switch op {
	case OpStr, OpHex:
		if arg.Kind != yaml.ScalarNode {
			return nil, atLine(condError("%s expects a scalar", op), arg)
		}
		return withLine(newCond(op, arg.Value, nil))(arg)
	case OpNull:
		return withLine(newCond(op, nil, nil))(arg)
	}

	var args []*Cond
	items := []*yaml.Node{arg}
	if arg.Kind == yaml.SequenceNode {
		items = arg.Content
	}
	for _, item := range items {
		sub, err := condFromYAML(item)
		if err != nil {
			return nil, err
		}
		args = append(args, sub)
	}
	return withLine(newCond(op, nil, args))(n)
}

func scalarCond(n *yaml.Node) (*Cond, error) {
	switch n.ShortTag() {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, atLine(errors.Wrap(err, errors.KindConfig, "invalid bool"), n)
		}
		return newCond("", b, nil)
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, atLine(errors.Wrap(err, errors.KindConfig, "invalid integer"), n)
		}
		return newCond("", i, nil)
	case "!!str":
		return newCond("", n.Value, nil)
	}
	return nil, atLine(condError("unsupported scalar %q (%s)", n.Value, n.ShortTag()), n)
}

func atLine(err error, n *yaml.Node) error {
	return errors.Attr(err, "line", n.Line)
}

func withLine(c *Cond, err error) func(*yaml.Node) (*Cond, error) {
	return func(n *yaml.Node) (*Cond, error) {
		if err != nil {
			return nil, atLine(err, n)
		}
		return c, nil
	}
}
