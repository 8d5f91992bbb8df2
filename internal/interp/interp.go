package interp

import (
	"context"

	"sandpit/internal/capture"
	"sandpit/internal/diag"
	"sandpit/internal/lexer"
	"sandpit/internal/source"
)

// DefaultStepBudget ограничивает число шагов вычисления одного запуска.
const DefaultStepBudget = 1_000_000

// Options configures a single run.
type Options struct {
	// StepBudget caps the number of evaluation steps; 0 picks the default,
	// отрицательное значение снимает лимит.
	StepBudget int
}

func (o Options) budget() int {
	switch {
	case o.StepBudget == 0:
		return DefaultStepBudget
	case o.StepBudget < 0:
		return 0
	}
	return o.StepBudget
}

// Run executes the already-lowered file exactly once and returns its
// transcript. Всё наблюдаемое поведение — строки транскрипта и флаг Failed;
// никакая ошибка исполняемого кода не выходит за пределы Run.
//
// Корневое окружение содержит единственную привязку — console. Глобальные
// объекты хоста исполняемому коду недоступны.
func Run(ctx context.Context, file *source.File, opts Options) *capture.RunResult {
	console := capture.NewConsole()

	bag := diag.NewBag(32)
	toks := lexer.ScanAll(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	prog, ok := Parse(toks, ParseOptions{Reporter: diag.BagReporter{Bag: bag}})
	if !ok || bag.HasErrors() {
		msg := "invalid program"
		if first, found := bag.FirstError(); found {
			msg = first.Message
		}
		console.Append(diag.SevError, "SyntaxError: "+msg)
		return console.Result()
	}

	root := NewEnv(nil)
	root.Define("console", newConsoleValue(console), true)

	ev := &evaluator{budget: opts.budget(), ctx: ctx}
	if c := ev.execProgram(prog, root); c != nil && c.kind == ctrlError {
		console.Append(diag.SevError, c.err.Msg)
	}

	if console.Empty() && !console.Result().Failed {
		console.Append(diag.SevInfo, "No output. Try console.log(...) to print something.")
	}
	return console.Result()
}
