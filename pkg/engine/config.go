package engine

import (
	"runtime"
)

// Config holds all parameters for a generation run.
type Config struct {
	Input       string `json:"input,omitempty"`
	OutDir      string `json:"outdir"`
	KconfigFile string `json:"kconfig_file"`
	MakeFile    string `json:"makefile"`
	Check       bool   `json:"check"`
	Format      string `json:"format"` // "text" or "json"
	SelfCheck   int    `json:"self_check"`
	Pool        string `json:"pool"`
	MaxDepth    int    `json:"max_depth"`
	Seed        int64  `json:"seed"`
	Workers     int    `json:"workers"`
	Verbose     bool   `json:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutDir:      ".",
		KconfigFile: "Kconfig",
		MakeFile:    "Makefile",
		Format:      "text",
		SelfCheck:   0, // 0 = off
		Pool:        "mixed",
		MaxDepth:    4,
		Seed:        0, // 0 = random
		Workers:     runtime.NumCPU(),
	}
}
