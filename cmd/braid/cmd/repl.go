package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/reader"
	"github.com/braidlang/braid/internal/value"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Start an interactive session: prompt for one top-level form,
evaluate it, and print the result (spec.md §6 "REPL protocol").

A backslash alone on a line enters multi-line input, terminated by a
line containing only ";;". The word "quit" ends the session. A
form that fails to parse because input ran out continues reading on
the next prompt rather than aborting.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	ev, err := newEvaluator()
	if err != nil {
		return err
	}

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	pending := ""
	formIndex := 0

	for {
		var line string
		if pending != "" {
			fmt.Fprint(os.Stderr, "...> ")
			if !in.Scan() {
				return nil
			}
			line = pending + "\n" + in.Text()
			pending = ""
		} else {
			fmt.Fprint(os.Stderr, "braid> ")
			if !in.Scan() {
				return nil
			}
			line = in.Text()

			if strings.TrimSpace(line) == "quit" {
				return nil
			}
			if strings.TrimSpace(line) == "\\" {
				line = readMultiline(in)
			} else if !looksComplete(line) {
				line = "(" + line + ")"
			}
		}

		formIndex++
		filename := fmt.Sprintf("<repl:%d>", formIndex)
		r := reader.New(filename, line, ev.Interner).WithMacroExpander(ev.MacroExpanderFor(ev.Root))
		forms, rerr := r.ReadAll()
		if rerr != nil {
			if rerr.Kind() == errors.KindIncompleteParse {
				pending = line
				continue
			}
			fmt.Fprintln(os.Stderr, rerr.Format(true))
			continue
		}

		for _, form := range forms {
			result, err := ev.Eval(form, ev.Root)
			if err != nil {
				if be, ok := err.(*errors.BraidError); ok {
					if be.Kind() == errors.KindExitRequest {
						return nil
					}
					fmt.Fprintln(os.Stderr, be.Format(true))
					continue
				}
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Println(value.Print(result))
		}
	}
}

// readMultiline accumulates lines until one reads exactly ";;".
func readMultiline(in *bufio.Scanner) string {
	var sb strings.Builder
	for {
		fmt.Fprint(os.Stderr, "...> ")
		if !in.Scan() {
			break
		}
		line := in.Text()
		if strings.TrimSpace(line) == ";;" {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// looksComplete is a cheap heuristic: a line that already starts with
// an opening delimiter is left as-is, otherwise it's auto-wrapped in
// parens per spec.md §6 ("auto-wrapped in parens if the user typed
// bare tokens").
func looksComplete(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	switch trimmed[0] {
	case '(', '[', '{':
		return true
	default:
		return false
	}
}
