package capture

import (
	"sandpit/internal/diag"
)

// TranscriptLine is one captured line of snippet output.
// Insertion order равен порядку эмиссии; в пределах одного запуска
// транскрипт только растёт.
type TranscriptLine struct {
	Severity diag.Severity
	Text     string
}

// RunResult is the complete observable outcome of a single run.
// Создаётся заново на каждый запуск: результаты никогда не сливаются.
type RunResult struct {
	Lines  []TranscriptLine
	Failed bool
}

// Console is the structured substitute for the ambient output stream.
// Исполняемый код видит только его — настоящий stdout/stderr хоста
// из снипета недостижим.
type Console struct {
	lines  []TranscriptLine
	failed bool
}

// NewConsole returns a fresh console with an empty transcript.
// Каждый запуск обязан создавать свой Console: переиспользование буфера
// могло бы протащить строки прошлого запуска в новый.
func NewConsole() *Console {
	return &Console{lines: make([]TranscriptLine, 0, 8)}
}

// Append adds one transcript line. Error severity marks the run as failed.
func (c *Console) Append(sev diag.Severity, text string) {
	c.lines = append(c.lines, TranscriptLine{Severity: sev, Text: text})
	if sev >= diag.SevError {
		c.failed = true
	}
}

// MarkFailed flags the run as failed without appending a line.
func (c *Console) MarkFailed() {
	c.failed = true
}

// Empty reports whether nothing has been captured yet.
func (c *Console) Empty() bool {
	return len(c.lines) == 0
}

// Result snapshots the transcript into a RunResult.
func (c *Console) Result() *RunResult {
	return &RunResult{Lines: c.lines, Failed: c.failed}
}
