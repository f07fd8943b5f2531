package cmd

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/reader"
	"github.com/braidlang/braid/internal/value"
)

// runGolden drives one program through exactly the pipeline runScript
// uses — a fresh Evaluator with every builtin registered, a
// macro-expanding reader, top-level forms evaluated in sequence — and
// returns everything print/println wrote plus the final form's printed
// value, joined the way a REPL transcript would show them.
func runGolden(t *testing.T, name, src string) string {
	t.Helper()
	ev, err := newEvaluator()
	if err != nil {
		t.Fatalf("%s: newEvaluator: %v", name, err)
	}
	var out bytes.Buffer
	ev.Output = &out

	r := reader.New(name, src, ev.Interner).WithMacroExpander(ev.MacroExpanderFor(ev.Root))
	forms, rerr := r.ReadAll()
	if rerr != nil {
		t.Fatalf("%s: reading: %s", name, rerr.Format(false))
	}

	var lastPrinted string
	for _, form := range forms {
		v, evalErr := ev.Eval(form, ev.Root)
		if evalErr != nil {
			if be, ok := evalErr.(*errors.BraidError); ok {
				return out.String() + "ERROR: " + be.Error()
			}
			t.Fatalf("%s: evaluating: %v", name, evalErr)
		}
		lastPrinted = value.Print(v)
	}
	return out.String() + "=> " + lastPrinted
}

// TestGoldenScenarios snapshots spec.md's S1-S7 scenarios end to end
// through the actual CLI evaluator construction path (newEvaluator),
// not just the bare internal/eval package, so a regression in builtin
// registration or config wiring shows up here too.
func TestGoldenScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		src  string
	}{
		{"s1_arithmetic", "(+ 1 2 3)"},
		{"s2_let_with_lambda", "(let [f (lambda [x y] (+ x y))] (f 10 32))"},
		{"s3_recursive_factorial", "(defn fact | 0 -> 1 | n -> (* n (fact (- n 1)))) (fact 5)"},
		{"s4_tail_recursive_sum", "(defn sum | acc [] -> acc | acc x:xs -> (recur (+ acc x) xs)) (sum 0 [1 2 3 4 5])"},
		{"s5_quasiquote", "`(a ~(+ 1 1) ~@[3 4] b)"},
		{"s6_let_destructuring", "(let a:b:c [10 20 30]) [a b c]"},
		{"s7_dictionary_get_and_set", "({:a 1 :b 2} :b)"},
		{"print_and_println", `(print "a") (println "b") (+ 1 1)`},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			got := runGolden(t, sc.name, sc.src)
			snaps.MatchSnapshot(t, got)
		})
	}
}
