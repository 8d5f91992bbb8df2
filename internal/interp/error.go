package interp

import (
	"sandpit/internal/diag"
	"sandpit/internal/source"
)

// RunError is an execution failure that will be caught at the run boundary
// and turned into a single error transcript line. Никогда не покидает Run.
type RunError struct {
	Code diag.Code
	Msg  string
	Sp   source.Span
}

func (e *RunError) Error() string {
	return e.Msg
}

func runErr(code diag.Code, sp source.Span, msg string) *RunError {
	return &RunError{Code: code, Msg: msg, Sp: sp}
}

// ctrl — нелокальный поток управления внутри исполнения: return/break/continue/ошибка.
type ctrlKind uint8

const (
	ctrlError ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

type ctrl struct {
	kind ctrlKind
	val  Value // значение return
	err  *RunError
}

func ctrlFromErr(err *RunError) *ctrl {
	return &ctrl{kind: ctrlError, err: err}
}
