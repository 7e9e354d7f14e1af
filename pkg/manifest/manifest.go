// Package manifest loads document descriptions from YAML or HCL and builds
// the Kconfig and Makefile render trees they describe.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/wildfunctions/dslgen/pkg/errors"
)

// Manifest describes one generated configuration: Kconfig symbols, grouped
// into menus and choices, and the Make statements that consume them.
type Manifest struct {
	Name      string     `yaml:"name"`
	Sources   []string   `yaml:"source"`
	Symbols   []Symbol   `yaml:"symbols"`
	Menus     []Menu     `yaml:"menus"`
	Choices   []Choice   `yaml:"choices"`
	Includes  []string   `yaml:"include"`
	Variables []Variable `yaml:"variables"`
	Rules     []Rule     `yaml:"rules"`
}

// Symbol is one Kconfig config entry.
type Symbol struct {
	Name       string    `yaml:"name"`
	Type       string    `yaml:"type"`
	Prompt     string    `yaml:"prompt"`
	MenuConfig bool      `yaml:"menuconfig"`
	Defaults   []Default `yaml:"defaults"`
	DependsOn  *Cond     `yaml:"depends_on"`
	Selects    []Select  `yaml:"select"`
	Help       string    `yaml:"help"`
}

// Default is `default VALUE [if WHEN]`.
type Default struct {
	Value *Cond `yaml:"value"`
	When  *Cond `yaml:"when"`
}

// Select is `select SYMBOL [if WHEN]`.
type Select struct {
	Symbol string `yaml:"symbol"`
	When   *Cond  `yaml:"when"`
}

// Menu groups symbols under a title. A When condition wraps them in an if
// block inside the menu.
type Menu struct {
	Title   string   `yaml:"title"`
	When    *Cond    `yaml:"when"`
	Symbols []Symbol `yaml:"symbols"`
}

// Choice is a group of mutually exclusive bool symbols.
type Choice struct {
	Prompt  string   `yaml:"prompt"`
	Symbols []Symbol `yaml:"symbols"`
}

// Variable is a Make assignment. Value is taken verbatim; Expr is a
// condition tree rendered in the Make dialect. At most one may be set.
type Variable struct {
	Name  string `yaml:"name"`
	Op    string `yaml:"op"`
	Value string `yaml:"value"`
	Expr  *Cond  `yaml:"expr"`
	When  *Cond  `yaml:"when"`
}

// Rule is a Make rule.
type Rule struct {
	Targets   []string `yaml:"targets"`
	Op        string   `yaml:"op"`
	Prereqs   []string `yaml:"prereqs"`
	OrderOnly []string `yaml:"order_only"`
	Recipe    []string `yaml:"recipe"`
	Phony     bool     `yaml:"phony"`
	When      *Cond    `yaml:"when"`
}

// Load reads a manifest, choosing the decoder from the file extension.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindIO, "failed to read manifest %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, path)
	}
	err = errors.Errorf(errors.KindConfig, "unsupported manifest extension %q", ext)
	return nil, errors.Attr(err, "path", path)
}
