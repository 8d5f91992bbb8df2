package session

import (
	"context"

	"sandpit/internal/capture"
	"sandpit/internal/diag"
	"sandpit/internal/erase"
	"sandpit/internal/interp"
	"sandpit/internal/source"
)

// Snippet — неизменяемый вход снаружи: текст и рекомендательный тег языка.
// Владеет им вызывающая сторона; сессия читает его один раз при инициализации.
type Snippet struct {
	SourceText       string
	DeclaredLanguage string
}

// Mode переключает отображение: форматированный read-only вид или редактор.
type Mode uint8

const (
	ModeFormatted Mode = iota
	ModeEditable
)

func (m Mode) String() string {
	if m == ModeEditable {
		return "editable"
	}
	return "formatted"
}

// Session owns the editable copy of one snippet and its last run result.
// Вся мутация идёт через методы; о конкурентности сессия не знает —
// один логический поток на владельца.
type Session struct {
	snippet  Snippet
	original string
	current  string
	mode     Mode
	last     *capture.RunResult

	budget int
	runs   uint64
}

// Option настраивает сессию при создании.
type Option func(*Session)

// WithStepBudget overrides the per-run evaluation step budget.
func WithStepBudget(n int) Option {
	return func(s *Session) { s.budget = n }
}

// New seeds a session from the snippet. Начальное состояние:
// current == original == snippet.SourceText, форматированный режим,
// результата последнего запуска нет.
func New(sn Snippet, opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	s.init(sn)
	return s
}

func (s *Session) init(sn Snippet) {
	s.snippet = sn
	s.original = sn.SourceText
	s.current = sn.SourceText
	s.mode = ModeFormatted
	s.last = nil
}

// Text returns the current (possibly edited) source text.
func (s *Session) Text() string { return s.current }

// Original returns the pristine snippet text.
func (s *Session) Original() string { return s.original }

// Language returns the declared language tag.
func (s *Session) Language() string { return s.snippet.DeclaredLanguage }

// Mode returns the current view mode.
func (s *Session) Mode() Mode { return s.mode }

// LastResult returns the result of the most recent run, nil если запусков
// ещё не было (или состояние сбрасывали).
func (s *Session) LastResult() *capture.RunResult { return s.last }

// Runs reports how many runs this session has performed.
func (s *Session) Runs() uint64 { return s.runs }

// Edit replaces the current text. Только в режиме редактирования;
// в форматированном виде правок быть не может. Оригинал не трогается никогда.
func (s *Session) Edit(text string) {
	if s.mode != ModeEditable {
		return
	}
	s.current = text
}

// SetMode toggles the view mode. Чистое переключение: правки переживают
// любое число туда-обратно.
func (s *Session) SetMode(m Mode) {
	s.mode = m
}

// ToggleMode flips between formatted and editable views.
func (s *Session) ToggleMode() {
	if s.mode == ModeFormatted {
		s.mode = ModeEditable
	} else {
		s.mode = ModeFormatted
	}
}

// Reset discards edits and the last result. Идемпотентно.
func (s *Session) Reset() {
	s.current = s.original
	s.last = nil
}

// SetSnippet unconditionally reinitializes the session from a new snippet.
// Никакое состояние прошлого снипета не переживает замену.
func (s *Session) SetSnippet(sn Snippet) {
	s.init(sn)
}

// Run lowers a snapshot of the current text and executes it exactly once.
// Правки, сделанные после снапшота, на идущий запуск не влияют. Результат
// целиком замещает предыдущий; наружу никакая ошибка исполняемого кода
// не распространяется.
func (s *Session) Run(ctx context.Context) *capture.RunResult {
	snapshot := s.current
	res := Execute(ctx, snapshot, s.snippet.DeclaredLanguage, interp.Options{StepBudget: s.budget})
	s.last = res
	s.runs++
	return res
}

// Adopt records an externally produced result as the session's latest run.
// Нужен хостам, которые исполняют снапшот текста вне сессии (асинхронный
// интерфейс): результат замещает предыдущий так же, как при Run.
func (s *Session) Adopt(res *capture.RunResult) {
	s.last = res
	s.runs++
}

// Budget returns the per-run step budget configured for this session.
func (s *Session) Budget() int { return s.budget }

// Execute — один запуск вне сессии: понижение + исполнение текста.
// Используется напрямую командами, которым не нужно редактируемое состояние.
func Execute(ctx context.Context, text, lang string, opts interp.Options) *capture.RunResult {
	rs, _ := erase.RulesetFor(lang)

	fset := source.NewFileSet()
	file := fset.Get(fset.AddVirtual("snippet", []byte(text)))

	bag := diag.NewBag(32)
	lowered := erase.Lower(file, rs, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		// Понижение не удалось: исполнение пропускаем целиком.
		console := capture.NewConsole()
		first, _ := bag.FirstError()
		start, _ := fset.Resolve(first.Primary)
		console.Append(diag.SevError,
			"LoweringError: "+first.Message+" (line "+start.String()+")")
		return console.Result()
	}

	execFile := fset.Get(fset.AddVirtual("snippet#lowered", []byte(lowered)))
	return interp.Run(ctx, execFile, opts)
}
