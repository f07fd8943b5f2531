package builtins

import (
	"fmt"

	"github.com/braidlang/braid/internal/eval"
	"github.com/braidlang/braid/internal/value"
)

// RegisterIO installs print/println, grounded on the teacher's
// builtins_io.go builtinPrint/builtinPrintLn: both write every argument
// to the task's output stream with no separator, println adding a
// trailing newline the way the teacher's WriteLn equivalent does.
func RegisterIO(ev *eval.Evaluator, bind func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error))) {
	bind("print", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		writeArgs(ev, args)
		return value.Nil, nil
	})
	bind("println", func(args []value.Value, _ map[value.Keyword]value.Value) (value.Value, error) {
		writeArgs(ev, args)
		if ev.Output != nil {
			fmt.Fprintln(ev.Output)
		}
		return value.Nil, nil
	})
}

func writeArgs(ev *eval.Evaluator, args []value.Value) {
	if ev.Output == nil {
		return
	}
	for _, a := range args {
		if s, ok := a.(value.StringValue); ok {
			fmt.Fprint(ev.Output, string(s))
			continue
		}
		fmt.Fprint(ev.Output, value.Print(a))
	}
}
