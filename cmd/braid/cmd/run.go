package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/braidlang/braid/internal/builtins"
	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/eval"
	"github.com/braidlang/braid/internal/reader"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Braid source file or inline expression",
	Long: `Read every top-level form from a file (or -e expression) and
evaluate them in order against a fresh root environment.

Examples:
  braid run script.tl
  braid run -e "(def x (+ 1 2)) (print x)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func readSource(args []string) (source, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

// newEvaluator builds a fresh Evaluator with every builtin wired in,
// honoring config/flag overrides for recursion depth and tracing.
func newEvaluator() (*eval.Evaluator, error) {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	depth := cfg.MaxDepth
	if maxDepth != 0 {
		depth = maxDepth
	}
	ev := eval.New(depth)
	ev.Trace = cfg.Trace || trace
	builtins.RegisterAll(ev)
	return ev, nil
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(args)
	if err != nil {
		return err
	}

	ev, err := newEvaluator()
	if err != nil {
		return err
	}

	r := reader.New(filename, source, ev.Interner).WithMacroExpander(ev.MacroExpanderFor(ev.Root))
	forms, rerr := r.ReadAll()
	if rerr != nil {
		fmt.Fprintln(os.Stderr, rerr.Format(true))
		return fmt.Errorf("failed to read %s", filename)
	}

	for _, form := range forms {
		if _, err := ev.Eval(form, ev.Root); err != nil {
			if be, ok := err.(*errors.BraidError); ok {
				if be.Kind() == errors.KindExitRequest {
					os.Exit(errors.ExitCode(be))
				}
				fmt.Fprintln(os.Stderr, be.Format(true))
				return fmt.Errorf("evaluation failed")
			}
			return err
		}
	}
	return nil
}
