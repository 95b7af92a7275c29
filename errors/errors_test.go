package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseValidate,
				Kind:    KindTypeMismatch,
				GoType:  "undefined",
				Detail:  "want string",
				Snippet: `\frac{a}{b}`,
			},
			contains: []string{"[validate]", "type_mismatch_error", "got undefined", "want string", `\\frac{a}{b}`},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEval,
				Kind:  KindNotReady,
			},
			contains: []string{"[eval]", "engine_not_ready"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInitialization,
				Detail: "bundle load failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "initialization_error", "bundle load failed", "caused by", "underlying error"},
		},
		{
			name:     "sentinel without phase",
			err:      ErrEvaluation,
			contains: []string{"evaluation_error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEval,
		Kind:  KindEvaluation,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEval,
		Kind:  KindEvaluation,
	}

	if !err.Is(&Error{Phase: PhaseEval, Kind: KindEvaluation}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseLoad, Kind: KindEvaluation}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEval, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrEvaluation) {
		t.Error("errors.Is should match kind sentinel")
	}
	if errors.Is(err, ErrInitialization) {
		t.Error("errors.Is should not match other sentinel")
	}
}

func TestError_IsThroughCause(t *testing.T) {
	inner := ResourceExceeded(PhaseLoad, "heap", 1, nil)
	outer := Initialization(PhaseLoad, "bundle load failed", inner)

	if !errors.Is(outer, ErrInitialization) {
		t.Error("outer should match ErrInitialization")
	}
	if !errors.Is(outer, ErrResourceExceeded) {
		t.Error("outer should match ErrResourceExceeded through its cause")
	}

	wrapped := fmt.Errorf("render: %w", outer)
	if KindOf(wrapped) != KindInitialization {
		t.Errorf("KindOf = %q, want %q", KindOf(wrapped), KindInitialization)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf plain error should be empty")
	}
	if KindOf(nil) != "" {
		t.Error("KindOf nil should be empty")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEval, KindEvaluation).
		GoType("object").
		Input("x^2").
		Cause(cause).
		Detail("expected %s, got %s", "string", "object").
		Build()

	if err.Phase != PhaseEval {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEval)
	}
	if err.Kind != KindEvaluation {
		t.Errorf("Kind = %v, want %v", err.Kind, KindEvaluation)
	}
	if err.GoType != "object" {
		t.Errorf("GoType = %v, want 'object'", err.GoType)
	}
	if err.Snippet != "x^2" {
		t.Errorf("Snippet = %v, want 'x^2'", err.Snippet)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got object" {
		t.Errorf("Detail = %v, want 'expected string, got object'", err.Detail)
	}
}

func TestSnippet(t *testing.T) {
	short := "E = mc^2"
	if got := Snippet(short); got != short {
		t.Errorf("Snippet(%q) = %q", short, got)
	}

	long := strings.Repeat("αβ", MaxSnippetRunes)
	got := Snippet(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated snippet should end with ..., got %q", got)
	}
	body := strings.TrimSuffix(got, "...")
	if n := len([]rune(body)); n != MaxSnippetRunes {
		t.Errorf("snippet has %d runes, want %d", n, MaxSnippetRunes)
	}

	exact := strings.Repeat("x", MaxSnippetRunes)
	if got := Snippet(exact); got != exact {
		t.Error("snippet at the limit should not be truncated")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Initialization", func(t *testing.T) {
		err := Initialization(PhaseLoad, "parse bundle", errors.New("SyntaxError"))
		if err.Kind != KindInitialization || err.Phase != PhaseLoad {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("Misconfigured", func(t *testing.T) {
		err := Misconfigured("heap ceiling must be positive, got %d", 0)
		if err.Kind != KindInitialization || err.Phase != PhaseConfig {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Detail, "got 0") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("NotReady", func(t *testing.T) {
		err := NotReady("failed")
		if err.Kind != KindNotReady {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotReady)
		}
		if !strings.Contains(err.Error(), "failed") {
			t.Errorf("message should carry state: %s", err)
		}
	})

	t.Run("Evaluation", func(t *testing.T) {
		err := Evaluation(`\frac{a`, errors.New("Missing close brace"))
		if err.Kind != KindEvaluation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindEvaluation)
		}
		if !strings.Contains(err.Error(), `\\frac{a`) {
			t.Errorf("message should carry input: %s", err)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch("x", "number")
		if err.Kind != KindTypeMismatch || err.GoType != "number" {
			t.Errorf("got %v/%v", err.Kind, err.GoType)
		}
	})

	t.Run("ResourceExceeded", func(t *testing.T) {
		err := ResourceExceeded(PhaseEval, "stack", 4096, nil)
		if err.Kind != KindResourceExceeded {
			t.Errorf("Kind = %v, want %v", err.Kind, KindResourceExceeded)
		}
		if !strings.Contains(err.Detail, "4096") {
			t.Errorf("Detail = %q should carry the limit", err.Detail)
		}
	})
}

func TestConstructors_BuiltFields(t *testing.T) {
	long := strings.Repeat("x", MaxSnippetRunes+20)
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want Error
	}{
		{
			"Evaluation",
			Evaluation(long, cause),
			Error{Phase: PhaseEval, Kind: KindEvaluation, Detail: "render failed", Snippet: Snippet(long), Cause: cause},
		},
		{
			"TypeMismatch",
			TypeMismatch("y", "object"),
			Error{Phase: PhaseValidate, Kind: KindTypeMismatch, Detail: "want string", Snippet: "y", GoType: "object"},
		},
		{
			"NotReady",
			NotReady("closed"),
			Error{Phase: PhaseEval, Kind: KindNotReady, Detail: "engine is closed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if *tt.err != tt.want {
				t.Errorf("got %+v, want %+v", *tt.err, tt.want)
			}
		})
	}
}
