package eval

import (
	"fmt"
	"os"
	"strings"

	"github.com/braidlang/braid/internal/value"
)

// traceEnter and traceExit print a one-line call trace to stderr when
// Evaluator.Trace is set — the interactive `-trace` driver flag's
// backing hook (spec.md §6 "REPL... -trace").
func (ev *Evaluator) traceEnter(name string, args []value.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.Print(a)
	}
	fmt.Fprintf(os.Stderr, "%s-> (%s %s)\n", strings.Repeat("  ", ev.Stack.Depth()), name, strings.Join(parts, " "))
}

func (ev *Evaluator) traceExit(name string, result value.Value, err error) {
	indent := strings.Repeat("  ", ev.Stack.Depth())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s<- %s raised: %v\n", indent, name, err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s<- %s = %s\n", indent, name, value.Print(result))
}
