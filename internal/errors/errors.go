// Package errors implements Braid's error taxonomy (spec.md §7): a
// recoverable IncompleteParse signal for the reader, a fatal
// CompileError, the default annotated UserError, and the two
// unwind-to-the-top tokens ExitRequest and StopRequest. All carry
// source-pointer rendering in the style of the teacher's
// internal/errors package (line, caret, message, then stack trace).
package errors

import (
	"fmt"
	"strings"

	"github.com/braidlang/braid/internal/token"
)

// Kind distinguishes the error taxonomy of spec.md §7's table. Flow
// control tokens (return/break/continue/recur/fail) are NOT part of
// this taxonomy — they are ordinary Values (value.FlowControl), not
// errors, and never constructed here.
type Kind int

const (
	KindIncompleteParse Kind = iota
	KindCompileError
	KindUserError
	KindExitRequest
	KindStopRequest
)

func (k Kind) String() string {
	switch k {
	case KindIncompleteParse:
		return "IncompleteParse"
	case KindCompileError:
		return "CompileError"
	case KindUserError:
		return "UserError"
	case KindExitRequest:
		return "ExitRequest"
	case KindStopRequest:
		return "StopRequest"
	default:
		return "Error"
	}
}

// BraidError is every error this package constructs. A reader or
// evaluator catch-all should type-switch on Kind() rather than on the
// concrete Go type.
type BraidError struct {
	ErrKind Kind
	Message string
	Pos     token.Position
	Source  string // the full source text, for caret rendering
	Stack   StackTrace
}

func (e *BraidError) Kind() Kind { return e.ErrKind }

func (e *BraidError) Error() string { return e.Format(false) }

// Format renders: source pointer line(s), then "-> at (file:line)
// message", then the stack trace — spec.md §7's user-visible failure
// print order. color enables ANSI highlighting for interactive drivers.
func (e *BraidError) Format(color bool) string {
	var sb strings.Builder

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max0(e.Pos.Column-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteByte('^')
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(fmt.Sprintf("-> at (%s) %s", e.Pos, e.Message))
	if color {
		sb.WriteString("\033[0m")
	}

	if trace := e.Stack.String(); trace != "" {
		sb.WriteByte('\n')
		sb.WriteString(trace)
	}

	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// IncompleteParse signals the reader hit EOF mid-form; an interactive
// driver may request more input rather than treat this as fatal
// (spec.md §4.2, §6 "REPL protocol").
func IncompleteParse(pos token.Position, source, message string) *BraidError {
	return &BraidError{ErrKind: KindIncompleteParse, Pos: pos, Source: source, Message: message}
}

// CompileError signals a fatal error for the current top-level form
// (unmatched brackets, a malformed literal, a binder-time type
// mismatch).
func CompileError(pos token.Position, source, message string) *BraidError {
	return &BraidError{ErrKind: KindCompileError, Pos: pos, Source: source, Message: message}
}

// UserError is the default kind: any evaluator, primitive, or user-code
// failure, with an annotated message and an accumulating call-stack.
func UserError(pos token.Position, source, message string) *BraidError {
	return &BraidError{ErrKind: KindUserError, Pos: pos, Source: source, Message: message}
}

// WithFrame appends one stack frame and returns the same error (so
// callers can chain `return err.WithFrame(...)` while unwinding).
// Per spec.md §7, a frame whose rendered snippet duplicates the
// immediately preceding one is collapsed to a single ":" ellipsis
// frame instead of being repeated.
func (e *BraidError) WithFrame(frame StackFrame) *BraidError {
	if len(e.Stack) > 0 {
		prev := e.Stack[len(e.Stack)-1]
		if prev.Function == frame.Function && prev.Pos == frame.Pos {
			e.Stack[len(e.Stack)-1] = StackFrame{Function: ":", Pos: frame.Pos}
			return e
		}
	}
	e.Stack = append(e.Stack, frame)
	return e
}

// ExitRequest unwinds to the outermost driver (spec.md §6 "quit").
func ExitRequest(code int) *BraidError {
	return &BraidError{ErrKind: KindExitRequest, Message: fmt.Sprintf("exit(%d)", code)}
}

// ExitCode extracts the requested exit code from an ExitRequest error,
// defaulting to 0 if e is not one.
func ExitCode(e *BraidError) int {
	if e == nil || e.ErrKind != KindExitRequest {
		return 0
	}
	var code int
	fmt.Sscanf(e.Message, "exit(%d)", &code)
	return code
}

// StopRequest unwinds all active evaluations in response to the global
// cancellation flag (spec.md §5 "Cancellation").
func StopRequest() *BraidError {
	return &BraidError{ErrKind: KindStopRequest, Message: "evaluation stopped"}
}
