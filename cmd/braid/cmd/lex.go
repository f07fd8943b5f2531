package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/braidlang/braid/internal/lexer"
	"github.com/braidlang/braid/internal/token"
)

var showPos bool

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Braid source file or expression and print the tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
}

func runLex(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New(filename, source)
	count := 0
	for {
		tok, lerr := l.Next()
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "lex error: %s\n", lerr)
			return fmt.Errorf("tokenizing %s failed", filename)
		}
		count++
		if showPos {
			fmt.Printf("%-18s %q @%s\n", tok.Type, tok.Literal, tok.Pos)
		} else {
			fmt.Println(tok.String())
		}
		if tok.Type == token.EOF {
			break
		}
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%d token(s)\n", count)
	}
	return nil
}
