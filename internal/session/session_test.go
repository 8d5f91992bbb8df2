package session_test

import (
	"context"
	"strings"
	"testing"

	"sandpit/internal/diag"
	"sandpit/internal/interp"
	"sandpit/internal/session"
)

func newSession(src, lang string) *session.Session {
	return session.New(session.Snippet{SourceText: src, DeclaredLanguage: lang})
}

// ====== Начальное состояние ======

func TestInitialState(t *testing.T) {
	s := newSession("console.log(1)", "ts")

	if s.Text() != "console.log(1)" || s.Original() != "console.log(1)" {
		t.Error("current and original must both equal the snippet source")
	}
	if s.Mode() != session.ModeFormatted {
		t.Error("initial mode must be formatted")
	}
	if s.LastResult() != nil {
		t.Error("fresh session must have no run result")
	}
	if s.Language() != "ts" {
		t.Errorf("language tag lost: %q", s.Language())
	}
}

// ====== Правки и режимы ======

func TestEdit_DoesNotTouchOriginal(t *testing.T) {
	s := newSession("original", "js")
	s.SetMode(session.ModeEditable)
	s.Edit("edited")

	if s.Text() != "edited" {
		t.Errorf("edit not applied: %q", s.Text())
	}
	if s.Original() != "original" {
		t.Errorf("original must never change on edit: %q", s.Original())
	}
}

func TestEdit_IgnoredInFormattedMode(t *testing.T) {
	s := newSession("original", "js")
	s.Edit("sneaky")

	if s.Text() != "original" {
		t.Errorf("formatted view must not accept edits: %q", s.Text())
	}
}

func TestModeToggle_PreservesEdits(t *testing.T) {
	s := newSession("a", "js")
	s.SetMode(session.ModeEditable)
	s.Edit("mutated")

	// formatted -> editable -> formatted -> editable: правки живы
	s.ToggleMode()
	s.ToggleMode()
	if s.Mode() != session.ModeEditable {
		t.Errorf("two toggles from editable must return to editable, got %v", s.Mode())
	}
	if s.Text() != "mutated" {
		t.Errorf("mode toggling reverted edits: %q", s.Text())
	}
}

// ====== Reset ======

func TestReset(t *testing.T) {
	s := newSession("console.log(1)", "js")
	s.SetMode(session.ModeEditable)
	s.Edit("console.log(2)")
	s.Run(context.Background())

	s.Reset()
	if s.Text() != "console.log(1)" {
		t.Errorf("reset must restore the original text: %q", s.Text())
	}
	if s.LastResult() != nil {
		t.Error("reset must clear the last result")
	}

	// Идемпотентность
	s.Reset()
	if s.Text() != "console.log(1)" || s.LastResult() != nil {
		t.Error("second reset changed state")
	}
}

// ====== Смена снипета ======

func TestSetSnippet_ReinitializesEverything(t *testing.T) {
	s := newSession("first", "ts")
	s.SetMode(session.ModeEditable)
	s.Edit("first edited")
	s.Run(context.Background())

	s.SetSnippet(session.Snippet{SourceText: "second", DeclaredLanguage: "js"})

	if s.Text() != "second" || s.Original() != "second" {
		t.Error("new snippet must replace both current and original text")
	}
	if s.Mode() != session.ModeFormatted {
		t.Error("new snippet must reset the mode")
	}
	if s.LastResult() != nil {
		t.Error("new snippet must clear the previous result")
	}
	if s.Language() != "js" {
		t.Errorf("language not replaced: %q", s.Language())
	}
}

// ====== Запуск ======

func TestRun_EndToEnd(t *testing.T) {
	s := newSession("let x: number = 40\nconsole.log(x + 2)", "ts")
	res := s.Run(context.Background())

	if res.Failed {
		t.Fatalf("run failed: %v", res.Lines)
	}
	if len(res.Lines) != 1 || res.Lines[0].Text != "42" {
		t.Fatalf("expected single line \"42\", got %v", res.Lines)
	}
	if s.LastResult() != res {
		t.Error("session must store the result it returned")
	}
}

func TestRun_FreshResultPerRun(t *testing.T) {
	s := newSession(`console.log("once")`, "js")
	first := s.Run(context.Background())
	second := s.Run(context.Background())

	if first == second {
		t.Fatal("each run must allocate a fresh result")
	}
	if len(second.Lines) != 1 {
		t.Errorf("second run transcript must not accumulate: %v", second.Lines)
	}
	if s.Runs() != 2 {
		t.Errorf("expected 2 recorded runs, got %d", s.Runs())
	}
}

func TestRun_LoweringFailureSkipsExecution(t *testing.T) {
	s := newSession(`let broken: = 1
console.log("never")`, "ts")
	res := s.Run(context.Background())

	if !res.Failed {
		t.Fatal("lowering failure must fail the run")
	}
	if len(res.Lines) != 1 || res.Lines[0].Severity != diag.SevError {
		t.Fatalf("expected a single error line, got %v", res.Lines)
	}
	if !strings.Contains(res.Lines[0].Text, "LoweringError") {
		t.Errorf("line should name the lowering failure: %q", res.Lines[0].Text)
	}
}

func TestRun_PassthroughLanguage(t *testing.T) {
	// js-снипет исполняется без стирания
	s := newSession(`console.log([1, 2].length)`, "js")
	res := s.Run(context.Background())
	if res.Failed || len(res.Lines) != 1 || res.Lines[0].Text != "2" {
		t.Fatalf("unexpected result: %v", res.Lines)
	}
}

func TestExecute_Standalone(t *testing.T) {
	res := session.Execute(context.Background(), "console.log(typeof 1)", "ts", interp.Options{})
	if res.Failed || len(res.Lines) != 1 || res.Lines[0].Text != "number" {
		t.Fatalf("unexpected result: %v", res.Lines)
	}
}

func TestAdopt(t *testing.T) {
	s := newSession("console.log(1)", "js")
	res := session.Execute(context.Background(), s.Text(), s.Language(), interp.Options{})
	s.Adopt(res)

	if s.LastResult() != res || s.Runs() != 1 {
		t.Error("adopted result must become the session's latest run")
	}
}
