package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/braidlang/braid/internal/ident"
	"github.com/braidlang/braid/internal/reader"
	"github.com/braidlang/braid/internal/value"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Read Braid source into its value graph and print each top-level form",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runParse(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(args)
	if err != nil {
		return err
	}

	r := reader.New(filename, source, ident.New())
	forms, rerr := r.ReadAll()
	if rerr != nil {
		fmt.Fprintln(os.Stderr, rerr.Format(true))
		return fmt.Errorf("parsing %s failed", filename)
	}

	for i, form := range forms {
		fmt.Printf("%d: %s\n", i, value.Print(form))
	}
	return nil
}
