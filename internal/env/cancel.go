package env

import "sync/atomic"

// stopFlag is the single process-wide cancellation flag described in
// spec.md §5: cooperative and global. Per-task cancellation is called
// out there as an open question; DESIGN.md records the decision to
// keep the global default available rather than build a token scheme
// this core does not need yet.
var stopFlag atomic.Bool

// RequestStop arms the global cancellation flag. Every active
// evaluation observes it at its next checkpoint (spec.md §5
// "Cancellation": main dispatch, between sequence elements, between
// pattern clauses, before each recur restart).
func RequestStop() { stopFlag.Store(true) }

// ClearStop disarms the flag, e.g. before starting a fresh REPL
// evaluation after a prior one was cancelled.
func ClearStop() { stopFlag.Store(false) }

// StopRequested reports the current state of the flag.
func StopRequested() bool { return stopFlag.Load() }
