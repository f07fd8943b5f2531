package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose  bool
	trace    bool
	maxDepth int
	cfgFile  string
)

var rootCmd = &cobra.Command{
	Use:   "braid",
	Short: "Braid language interpreter",
	Long: `braid is the reference driver for Braid, a homoiconic, dynamically
typed Lisp-family language intended for interactive use.

It exposes the reader, tree-walking evaluator, and pattern-matching
dispatch subsystems through a small set of subcommands: run a script,
drop into a REPL, or inspect the lexer/reader pipeline directly.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "trace evaluator dispatch to stderr")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "recursion depth guard (0 = default)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a braid.yaml config file (default: ./braid.yaml if present)")
}
