package pattern

import (
	"fmt"

	"github.com/braidlang/braid/internal/env"
	"github.com/braidlang/braid/internal/value"
)

// matchSeq runs the positional-match loop of spec.md §4.3's pseudocode
// against subject, binding into frame as it goes. It is used for a
// clause's own positional list, recursively for a nested vector
// pattern's sub-elements, and — via DispatchStar — to report how much
// of an outer subject a star-function callee consumed.
//
// matched reports whether every element matched (and, for a full —
// non-partial — match, whether the whole subject was consumed).
// consumed is how many leading subject elements were used. hardFail
// reports whether a "!" element earlier in elems means this mismatch
// must be escalated to a hard error rather than simply trying the next
// clause (spec.md "Fail").
func matchSeq(elems []Element, subject []value.Value, named map[string]value.Value, frame *env.Frame, host Host, partial bool) (matched bool, consumed int, hardFail bool, err error) {
	idx := 0
	sawFail := false

	for _, e := range elems {
		if _, isFail := e.(FailElement); isFail {
			sawFail = true
			continue
		}

		if kw, isKeyword := e.(*KeywordElement); isKeyword {
			kw.bind(frame, named)
			continue
		}

		if and, isAndArgs := e.(*AndArgsElement); isAndArgs {
			and.bind(subject[idx:], frame)
			idx = len(subject)
			continue
		}

		if star, isStar := e.(*StarElement); isStar {
			result, used, serr := star.dispatch(subject[idx:], frame, host)
			if serr != nil {
				return false, idx, sawFail, serr
			}
			if used < 0 {
				return false, idx, sawFail, nil
			}
			if star.Bind != nil {
				frame.SetLocal(star.Bind, result)
			}
			idx += used
			continue
		}

		if idx >= len(subject) {
			if def, hasDefault := e.(*DefaultElement); hasDefault {
				if derr := def.bindDefault(frame, host); derr != nil {
					return false, idx, sawFail, derr
				}
				continue
			}
			return false, idx, sawFail, nil
		}

		used, ok, merr := e.Match(subject, idx, frame, host)
		if merr != nil {
			return false, idx, sawFail, merr
		}
		if !ok {
			return false, idx, sawFail, nil
		}
		idx += used
	}

	if !partial && idx < len(subject) {
		return false, idx, sawFail, nil
	}
	return true, idx, sawFail, nil
}

// runActions evaluates a clause's action forms in order, returning the
// last result (or a FlowControl token produced partway through, which
// short-circuits the rest — spec.md §4.5 rule 5).
func runActions(actions []value.Value, frame *env.Frame, host Host) (value.Value, error) {
	var result value.Value = value.Nil
	for _, form := range actions {
		v, err := host.Eval(form, frame)
		if err != nil {
			return nil, err
		}
		result = v
		if _, isFlow := value.IsFlow(v); isFlow {
			return v, nil
		}
	}
	return result, nil
}

// dispatch is the shared engine behind Dispatch and DispatchStar.
func (f *Function) dispatch(args []value.Value, named map[string]value.Value, host Host, partial bool) (value.Value, int, error) {
	if len(named) > 0 {
		declared := f.declaredKeywords()
		for k := range named {
			if !declared[k] {
				return nil, 0, fmt.Errorf("%s: unknown named parameter -%s:", f.Name, k)
			}
		}
	}

	call := env.NewEnclosed(f.Env)
	call.Named = named
	call.Arguments = append([]value.Value(nil), args...)

	if f.End != nil {
		defer func() {
			endFrame := env.NewEnclosed(call)
			_, _ = runActions(f.End.Actions, endFrame, host)
		}()
	}

	if f.Begin != nil {
		beginFrame := env.NewEnclosed(call)
		if _, err := runActions(f.Begin.Actions, beginFrame, host); err != nil {
			return nil, 0, err
		}
	}

	current := args
	for {
		if env.StopRequested() {
			return nil, 0, fmt.Errorf("evaluation stopped")
		}

		result, consumed, matched, hardFail, err := f.tryClauses(current, named, call, host, partial)
		if err != nil {
			return nil, 0, err
		}
		if hardFail {
			return nil, 0, fmt.Errorf("%s: pattern mismatch after a '!' element", f.Name)
		}
		if !matched {
			if f.Default != nil {
				defFrame := env.NewEnclosed(call)
				v, derr := runActions(f.Default.Actions, defFrame, host)
				if derr != nil {
					return nil, 0, derr
				}
				result, consumed = v, 0
			} else {
				return nil, 0, fmt.Errorf("%s: no matching clause for %d argument(s)", f.Name, len(current))
			}
		}

		if flow, isFlow := value.IsFlow(result); isFlow {
			switch flow.Which {
			case value.FlowRecur:
				if flow.Target != "" && flow.Target != f.Name {
					return result, consumed, nil
				}
				current = flow.Args
				call.Arguments = append([]value.Value(nil), current...)
				continue
			case value.FlowReturn:
				return flow.Value, consumed, nil
			default:
				return result, consumed, nil
			}
		}
		return result, consumed, nil
	}
}

// tryClauses attempts each ordered clause in turn (spec.md Invariant 5:
// "the same clause always wins").
func (f *Function) tryClauses(subject []value.Value, named map[string]value.Value, call *env.Frame, host Host, partial bool) (result value.Value, consumed int, matched bool, hardFail bool, err error) {
	for _, clause := range f.Clauses {
		frame := env.NewEnclosed(call)
		ok, used, clauseHardFail, merr := matchSeq(clause.Positional, subject, named, frame, host, partial)
		if merr != nil {
			return nil, 0, false, false, merr
		}
		if !ok {
			if clauseHardFail {
				return nil, 0, false, true, nil
			}
			continue
		}
		if clause.Where != nil {
			w, werr := host.Eval(clause.Where, frame)
			if werr != nil {
				return nil, 0, false, false, werr
			}
			if !value.Truthy(w) {
				continue
			}
		}

		v, aerr := runActions(clause.Actions, frame, host)
		if aerr != nil {
			return nil, 0, false, false, aerr
		}
		if fc, isFlow := value.IsFlow(v); isFlow && fc.Which == value.FlowFail {
			if clause.AllowBacktrack {
				continue
			}
			return nil, 0, false, false, fmt.Errorf("%s: clause failed and backtracking is disabled", f.Name)
		}
		return v, used, true, false, nil
	}
	return nil, 0, false, false, nil
}
