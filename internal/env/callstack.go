package env

import (
	"fmt"

	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/token"
)

// DefaultMaxRecursionDepth bounds the call stack absent an explicit
// override (spec.md §4.4 "Depth guard").
const DefaultMaxRecursionDepth = 4096

// CallStack tracks one evaluator task's function-call nesting for
// stack-overflow detection and stack-trace rendering. Every evaluator
// thread owns its own CallStack — it is thread-local state, never
// shared (spec.md §5 "Scheduling model").
type CallStack struct {
	frames   errors.StackTrace
	maxDepth int
}

// NewCallStack creates a call stack bounded at maxDepth (or
// DefaultMaxRecursionDepth if maxDepth <= 0).
func NewCallStack(maxDepth int) *CallStack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRecursionDepth
	}
	return &CallStack{maxDepth: maxDepth}
}

// Push adds a frame, or returns a stack-overflow error if doing so
// would exceed MaxDepth.
func (cs *CallStack) Push(function string, pos token.Position) error {
	if len(cs.frames) >= cs.maxDepth {
		return fmt.Errorf("stack overflow: maximum recursion depth (%d) exceeded in '%s'", cs.maxDepth, function)
	}
	cs.frames = append(cs.frames, errors.NewStackFrame(function, pos))
	return nil
}

// Pop removes the most recently pushed frame; a no-op if empty.
func (cs *CallStack) Pop() {
	if len(cs.frames) > 0 {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

// Current returns the top frame, or nil if the stack is empty.
func (cs *CallStack) Current() *errors.StackFrame { return cs.frames.Top() }

// Depth reports the number of frames currently pushed.
func (cs *CallStack) Depth() int { return len(cs.frames) }

// Frames returns a defensive copy of the stack, oldest first.
func (cs *CallStack) Frames() errors.StackTrace {
	out := make(errors.StackTrace, len(cs.frames))
	copy(out, cs.frames)
	return out
}

// MaxDepth reports the configured maximum.
func (cs *CallStack) MaxDepth() int { return cs.maxDepth }

// SetMaxDepth updates the configured maximum (0 or negative resets to
// the default).
func (cs *CallStack) SetMaxDepth(maxDepth int) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxRecursionDepth
	}
	cs.maxDepth = maxDepth
}

// WillOverflow reports whether one more Push would exceed MaxDepth.
func (cs *CallStack) WillOverflow() bool { return len(cs.frames) >= cs.maxDepth }

// Clear empties the stack.
func (cs *CallStack) Clear() { cs.frames = nil }
