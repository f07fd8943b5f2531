package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the optional braid.yaml REPL/runtime configuration
// (SPEC_FULL.md's AMBIENT STACK §1: "recursion depth, trace flag,
// watch list").
type Config struct {
	MaxDepth int      `yaml:"max_depth"`
	Trace    bool     `yaml:"trace"`
	Watch    []string `yaml:"watch"`
}

// loadConfig reads path (or ./braid.yaml if path is empty and that
// file exists); a missing default file is not an error, but an
// explicitly named missing file is.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		if _, err := os.Stat("braid.yaml"); err != nil {
			return cfg, nil
		}
		path = "braid.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
