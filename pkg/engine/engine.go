package engine

import (
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/wildfunctions/dslgen/pkg/errors"
	"github.com/wildfunctions/dslgen/pkg/manifest"
	"github.com/wildfunctions/dslgen/pkg/pool"
	"github.com/wildfunctions/dslgen/pkg/render"
)

// File statuses.
const (
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusDiffers   = "differs"
)

// Engine renders a manifest into Kconfig and Makefile outputs and runs the
// simplifier self check.
type Engine struct {
	cfg    Config
	pool   pool.Pool
	rng    *rand.Rand
	seed   int64
	logger *slog.Logger
}

// New creates a new engine from the given config. A nil logger discards
// all output.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.Input == "" && cfg.SelfCheck <= 0 {
		return nil, errors.New(errors.KindConfig, "nothing to do: set an input manifest or a self check count")
	}
	if cfg.SelfCheck > 0 && cfg.MaxDepth < 1 {
		return nil, errors.Attr(errors.Errorf(errors.KindConfig, "max depth must be at least 1, got %d", cfg.MaxDepth), "max_depth", cfg.MaxDepth)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return nil, errors.Attr(errors.Errorf(errors.KindConfig, "unknown output format %q", cfg.Format), "format", cfg.Format)
	}

	p, err := pool.Get(cfg.Pool)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "invalid pool")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{
		cfg:    cfg,
		pool:   p,
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
		logger: logger.With("component", "engine"),
	}, nil
}

// Run generates (or checks) the outputs of the configured manifest and runs
// the self check when enabled.
func (e *Engine) Run() (Report, error) {
	report := Report{Config: e.cfg}

	if e.cfg.Input != "" {
		if err := e.generate(&report); err != nil {
			return report, err
		}
	}

	if e.cfg.SelfCheck > 0 {
		sc, err := e.selfCheck()
		if err != nil {
			return report, err
		}
		report.SelfCheck = sc
	}
	return report, nil
}

func (e *Engine) generate(report *Report) error {
	log := e.logger.With("manifest", e.cfg.Input)

	m, err := manifest.Load(e.cfg.Input)
	if err != nil {
		return err
	}
	report.Manifest = m.Name
	log.Info("loaded manifest",
		"symbols", len(m.Symbols), "menus", len(m.Menus), "choices", len(m.Choices),
		"variables", len(m.Variables), "rules", len(m.Rules))

	report.Undefined = m.Undefined()
	for _, name := range report.Undefined {
		log.Warn("symbol referenced but not defined", "symbol", name)
	}

	kc, err := m.Kconfig()
	if err != nil {
		return errors.Wrap(err, errors.GetKind(err), "failed to build Kconfig")
	}
	mk, err := m.Makefile()
	if err != nil {
		return errors.Wrap(err, errors.GetKind(err), "failed to build Makefile")
	}

	outputs := []struct {
		name    string
		dialect string
		node    render.Node
	}{
		{e.cfg.KconfigFile, "kconfig", kc},
		{e.cfg.MakeFile, "make", mk},
	}
	for _, out := range outputs {
		fr, err := e.emit(filepath.Join(e.cfg.OutDir, out.name), out.dialect, out.node)
		if err != nil {
			return err
		}
		switch fr.Status {
		case StatusDiffers:
			log.Warn("generated output differs", "path", fr.Path)
		default:
			log.Info("output "+fr.Status, "path", fr.Path, "lines", fr.Lines)
		}
		report.Files = append(report.Files, fr)
	}
	return nil
}

// emit writes the rendered node to path. Identical files are left alone; in
// check mode nothing is written and differences are reported as a unified
// diff.
func (e *Engine) emit(path, dialect string, node render.Node) (FileReport, error) {
	content := render.Render(node) + "\n"
	fr := FileReport{Path: path, Dialect: dialect, Lines: strings.Count(content, "\n")}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && string(existing) == content:
		fr.Status = StatusUnchanged
		return fr, nil
	case err != nil && !os.IsNotExist(err):
		return fr, errors.Attr(errors.Wrapf(err, errors.KindIO, "failed to read %s", path), "path", path)
	}

	if e.cfg.Check {
		fr.Status = StatusDiffers
		fr.Diff, err = unifiedDiff(path, string(existing), content)
		if err != nil {
			return fr, errors.Wrap(err, errors.KindIO, "failed to diff "+path)
		}
		return fr, nil
	}

	if err := writeFile(path, content); err != nil {
		return fr, errors.Attr(errors.Wrapf(err, errors.KindIO, "failed to write %s", path), "path", path)
	}
	fr.Status = StatusWritten
	return fr, nil
}

func unifiedDiff(path, current, generated string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(current),
		B:        splitLines(generated),
		FromFile: path + " (current)",
		ToFile:   path + " (generated)",
		Context:  3,
	})
}

// splitLines is difflib.SplitLines without the phantom line after a final
// newline. Empty text has no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(strings.TrimSuffix(s, "\n"))
}

// writeFile replaces path through a temporary file in the same directory so
// readers never see a partial file.
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
