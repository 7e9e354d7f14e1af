package engine

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wildfunctions/dslgen/pkg/errors"
)

const demoManifest = "../manifest/testdata/demo.yaml"

func generateConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Input = demoManifest
	cfg.OutDir = t.TempDir()
	return cfg
}

func run(t *testing.T, cfg Config) Report {
	t.Helper()
	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	report, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func statuses(r Report) []string {
	var out []string
	for _, f := range r.Files {
		out = append(out, f.Status)
	}
	return out
}

func TestEngine_Generate(t *testing.T) {
	cfg := generateConfig(t)

	report := run(t, cfg)
	if got, want := statuses(report), []string{StatusWritten, StatusWritten}; !reflect.DeepEqual(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	if report.Manifest != "Demo firmware" {
		t.Errorf("manifest = %q", report.Manifest)
	}
	if !reflect.DeepEqual(report.Undefined, []string{"VERBOSE"}) {
		t.Errorf("undefined = %v", report.Undefined)
	}
	if !report.OK() {
		t.Error("expected OK report")
	}

	kc, err := os.ReadFile(filepath.Join(cfg.OutDir, "Kconfig"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(kc), `mainmenu "Demo firmware"`) || !strings.HasSuffix(string(kc), "endchoice\n") {
		t.Errorf("unexpected Kconfig:\n%s", kc)
	}
	if n := strings.Count(string(kc), "\n"); n != report.Files[0].Lines {
		t.Errorf("Kconfig lines = %d, report says %d", n, report.Files[0].Lines)
	}

	mk, err := os.ReadFile(filepath.Join(cfg.OutDir, "Makefile"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mk), ".PHONY : all clean\n") {
		t.Errorf("unexpected Makefile:\n%s", mk)
	}

	// A second run finds nothing to do.
	report = run(t, cfg)
	if got, want := statuses(report), []string{StatusUnchanged, StatusUnchanged}; !reflect.DeepEqual(got, want) {
		t.Errorf("rerun statuses = %v, want %v", got, want)
	}
}

func TestEngine_Check(t *testing.T) {
	cfg := generateConfig(t)
	run(t, cfg)

	makefile := filepath.Join(cfg.OutDir, "Makefile")
	before, err := os.ReadFile(makefile)
	if err != nil {
		t.Fatal(err)
	}
	edited := append(append([]byte{}, before...), "stale : \n"...)
	if err := os.WriteFile(makefile, edited, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg.Check = true
	report := run(t, cfg)
	if got, want := statuses(report), []string{StatusUnchanged, StatusDiffers}; !reflect.DeepEqual(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	if report.OK() {
		t.Error("expected report with a stale file to fail")
	}
	diff := report.Files[1].Diff
	if !strings.Contains(diff, "(generated)") || !strings.Contains(diff, "-stale : ") {
		t.Errorf("unexpected diff:\n%s", diff)
	}

	after, err := os.ReadFile(makefile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(after, edited) {
		t.Error("check mode rewrote the Makefile")
	}
}

func TestEngine_CheckMissingOutput(t *testing.T) {
	cfg := generateConfig(t)
	cfg.Check = true

	report := run(t, cfg)
	if got, want := statuses(report), []string{StatusDiffers, StatusDiffers}; !reflect.DeepEqual(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "Kconfig")); !os.IsNotExist(err) {
		t.Errorf("check mode created Kconfig: %v", err)
	}
	if !strings.Contains(report.Files[0].Diff, "+mainmenu") {
		t.Errorf("unexpected diff:\n%s", report.Files[0].Diff)
	}
}

func TestEngine_MissingManifest(t *testing.T) {
	cfg := generateConfig(t)
	cfg.Input = filepath.Join(cfg.OutDir, "nope.yaml")

	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(); !errors.IsKind(err, errors.KindIO) {
		t.Errorf("expected io error, got %v", err)
	}
}

func TestEngine_SelfCheck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SelfCheck = 100
	cfg.Seed = 42
	cfg.Workers = 4

	report := run(t, cfg)
	sc := report.SelfCheck
	if sc == nil {
		t.Fatal("expected a self check report")
	}
	if len(sc.Failures) != 0 {
		t.Errorf("%d property failures, first: %+v", len(sc.Failures), sc.Failures[0])
	}
	if len(sc.Languages) < 2 {
		t.Errorf("languages = %v", sc.Languages)
	}
	if sc.Trees != 2*cfg.SelfCheck*len(sc.Languages) {
		t.Errorf("trees = %d", sc.Trees)
	}
	if sc.Checks <= sc.Trees {
		t.Errorf("checks = %d for %d trees", sc.Checks, sc.Trees)
	}
	if sc.Seed != 42 || sc.Pool != "mixed" {
		t.Errorf("seed/pool = %d/%s", sc.Seed, sc.Pool)
	}
	if !report.OK() {
		t.Error("expected OK report")
	}

	// Same seed, different worker count, same outcome.
	cfg.Workers = 1
	again := run(t, cfg).SelfCheck
	if again.NodesBefore != sc.NodesBefore || again.NodesAfter != sc.NodesAfter || again.Checks != sc.Checks {
		t.Errorf("self check not reproducible: %+v vs %+v", again, sc)
	}
}

func TestEngine_RandomSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SelfCheck = 1
	cfg.Pool = "logic"

	report := run(t, cfg)
	if report.SelfCheck.Seed == 0 {
		t.Error("expected a random seed to be picked")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"nothing to do", func(c *Config) {}},
		{"bad format", func(c *Config) { c.Input = demoManifest; c.Format = "xml" }},
		{"bad pool", func(c *Config) { c.SelfCheck = 1; c.Pool = "nope" }},
		{"bad depth", func(c *Config) { c.SelfCheck = 1; c.MaxDepth = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			_, err := New(cfg, nil)
			if !errors.IsKind(err, errors.KindConfig) {
				t.Errorf("expected config error, got %v", err)
			}
		})
	}
}

func TestWriteReports(t *testing.T) {
	cfg := generateConfig(t)
	cfg.SelfCheck = 5
	cfg.Seed = 7

	report := run(t, cfg)
	report.SelfCheck.Failures = []PropertyFailure{
		{Language: "make", Property: "idempotence", Input: "x", Want: "x", Got: "y"},
		{Language: "kconfig", Property: "double negation", Input: "a", Want: "a", Got: "b"},
	}

	var text bytes.Buffer
	WriteTextReport(&text, report)
	out := text.String()
	for _, want := range []string{
		"Manifest:  Demo firmware",
		"Undefined: VERBOSE",
		"SELF CHECK",
		"Seed:      7",
		"#1: [kconfig] double negation",
		"#2: [make] idempotence",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}

	var buf bytes.Buffer
	if err := WriteJSONReport(&buf, report); err != nil {
		t.Fatal(err)
	}
	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Manifest != report.Manifest || len(decoded.Files) != 2 || len(decoded.SelfCheck.Failures) != 2 {
		t.Errorf("unexpected decoded report: %+v", decoded)
	}
	if decoded.OK() {
		t.Error("expected decoded report with failures to fail")
	}
}
