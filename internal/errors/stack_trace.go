package errors

import (
	"fmt"
	"strings"

	"github.com/braidlang/braid/internal/token"
)

// StackFrame is a single frame in a Braid call stack: the function
// being evaluated and its call-site position (spec.md §6: "every
// thrown error carries (file, line) annotation").
type StackFrame struct {
	Pos      token.Position
	Function string
}

// String renders "FunctionName [line: N, column: M]".
func (f StackFrame) String() string {
	if f.Pos.Line == 0 {
		return f.Function
	}
	return fmt.Sprintf("%s [line: %d, column: %d]", f.Function, f.Pos.Line, f.Pos.Column)
}

// StackTrace is a complete call stack, oldest frame first.
type StackTrace []StackFrame

// String prints newest frame first, one per line — the order a user
// reads a traceback in.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Top returns the most recently pushed frame, or nil if empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Depth reports the number of frames.
func (st StackTrace) Depth() int { return len(st) }

// NewStackFrame builds a frame.
func NewStackFrame(function string, pos token.Position) StackFrame {
	return StackFrame{Function: function, Pos: pos}
}
