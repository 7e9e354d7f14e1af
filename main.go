package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/wildfunctions/dslgen/pkg/engine"
	"github.com/wildfunctions/dslgen/pkg/pool"
)

func main() {
	cfg := engine.DefaultConfig()
	logLevel := "info"

	flag.StringVar(&cfg.Input, "input", cfg.Input, "manifest to render (.yaml, .yml or .hcl)")
	flag.StringVar(&cfg.OutDir, "outdir", cfg.OutDir, "output directory for generated files")
	flag.StringVar(&cfg.KconfigFile, "kconfig", cfg.KconfigFile, "name of the generated Kconfig file")
	flag.StringVar(&cfg.MakeFile, "makefile", cfg.MakeFile, "name of the generated Makefile")
	flag.BoolVar(&cfg.Check, "check", cfg.Check, "report stale outputs as a diff instead of writing them")
	flag.IntVar(&cfg.SelfCheck, "selfcheck", cfg.SelfCheck, "random trees per language for the simplifier self check (0 = off)")
	flag.StringVar(&cfg.Pool, "pool", cfg.Pool, "tree pool for the self check ("+strings.Join(pool.Names(), ", ")+")")
	flag.IntVar(&cfg.MaxDepth, "maxdepth", cfg.MaxDepth, "max tree depth")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel workers")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json)")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log at debug level")
	flag.StringVar(&logLevel, "log-level", logLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", logLevel)
		os.Exit(1)
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if cfg.Input != "" && !cfg.Check {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
			os.Exit(1)
		}
	}

	e, err := engine.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	report, err := e.Run()
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	switch cfg.Format {
	case "json":
		if err := engine.WriteJSONReport(os.Stdout, report); err != nil {
			fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
			os.Exit(1)
		}
	default:
		engine.WriteTextReport(os.Stdout, report)
	}

	if !report.OK() {
		os.Exit(1)
	}
}
