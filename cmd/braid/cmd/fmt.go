package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/reader"
	"github.com/braidlang/braid/internal/value"
)

var (
	fmtWrite bool
	fmtList  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Pretty-print Braid source by reading and re-printing its value graph",
	Long: `Read each top-level form and re-print it, exercising the
parse-print round-trip (spec.md's Invariant 1).

If no file is provided, reads from stdin and writes to stdout.`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result back to the source file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting would change, without writing")
}

func runFmt(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return formatStream(os.Stdin, "<stdin>", os.Stdout)
	}

	hasErrors := false
	for _, path := range args {
		if err := formatFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func formatFile(path string) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	formatted, err := formatSource(string(original), path)
	if err != nil {
		return err
	}

	changed := string(original) != formatted
	switch {
	case fmtList:
		if changed {
			fmt.Println(path)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return err
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

func formatStream(in *os.File, name string, out *os.File) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	formatted, err := formatSource(string(src), name)
	if err != nil {
		return err
	}
	fmt.Fprint(out, formatted)
	return nil
}

func formatSource(source, filename string) (string, error) {
	r := reader.New(filename, source, ident.New())
	forms, rerr := r.ReadAll()
	if rerr != nil {
		return "", fmt.Errorf("%s", rerr.Format(false))
	}
	var out string
	for _, form := range forms {
		out += value.Print(form) + "\n"
	}
	return out, nil
}

