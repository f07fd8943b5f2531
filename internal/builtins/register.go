package builtins

import (
	"github.com/braidlang/braid/internal/eval"
	"github.com/braidlang/braid/internal/value"
)

// RegisterAll wires every builtin concern — arithmetic, collections,
// higher-order functions, strings, JSON/Unicode domain-stack builtins,
// and I/O — into ev's root frame. Mirrors the teacher's own top-level
// "register every builtins file into the interpreter" entry point,
// called once by whatever constructs an Evaluator (the CLI, or a test
// harness).
func RegisterAll(ev *eval.Evaluator) {
	bind := func(name string, fn func(args []value.Value, named map[value.Keyword]value.Value) (value.Value, error)) {
		ev.Root.SetLocal(ev.Interner.Intern(name), &value.NativeFunc{Name: name, Fn: fn})
	}

	RegisterArithmetic(bind)
	RegisterCollections(bind)
	RegisterHigherOrder(ev, bind)
	RegisterStrings(bind)
	RegisterJSON(bind)
	RegisterIO(ev, bind)
}
