package errors_test

import (
	"strings"
	"testing"

	"github.com/braidlang/braid/internal/errors"
	"github.com/braidlang/braid/internal/token"
)

func TestFormatIncludesSourcePointerAndMessage(t *testing.T) {
	src := "(+ 1 foo)"
	err := errors.UserError(token.Position{Line: 1, Column: 6}, src, "unbound symbol: foo")
	out := err.Format(false)
	if !strings.Contains(out, src) {
		t.Fatalf("expected source line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "unbound symbol: foo") {
		t.Fatalf("expected message in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected a caret indicator, got:\n%s", out)
	}
}

func TestDuplicateFrameCollapsesToEllipsis(t *testing.T) {
	err := errors.UserError(token.Position{Line: 1, Column: 1}, "", "boom")
	frame := errors.NewStackFrame("f", token.Position{Line: 2, Column: 1})
	err.WithFrame(frame).WithFrame(frame)
	if len(err.Stack) != 1 {
		t.Fatalf("expected duplicate frame to collapse, got %d frames", len(err.Stack))
	}
	if err.Stack[0].Function != ":" {
		t.Fatalf("expected collapsed frame to render as ':', got %q", err.Stack[0].Function)
	}
}

func TestExitRequestRoundTripsCode(t *testing.T) {
	err := errors.ExitRequest(7)
	if errors.ExitCode(err) != 7 {
		t.Fatalf("expected exit code 7, got %d", errors.ExitCode(err))
	}
	if errors.ExitCode(errors.UserError(token.Position{}, "", "x")) != 0 {
		t.Fatal("non-exit error should report exit code 0")
	}
}

func TestKindsAreDistinct(t *testing.T) {
	kinds := []errors.Kind{
		errors.KindIncompleteParse, errors.KindCompileError, errors.KindUserError,
		errors.KindExitRequest, errors.KindStopRequest,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		if seen[k.String()] {
			t.Fatalf("duplicate Kind string: %s", k)
		}
		seen[k.String()] = true
	}
}
