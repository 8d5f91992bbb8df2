package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"sandpit/internal/diag"
	"sandpit/internal/lexer"
	"sandpit/internal/source"
	"sandpit/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

// Report реализует интерфейс diag.Reporter
func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

// HasErrors возвращает true, если были зарегистрированы ошибки
func (r *testReporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// ErrorMessages возвращает список сообщений об ошибках
func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ts", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{diagnostics: make([]diag.Diagnostic, 0)}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})

	return lx, reporter
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// expectTokens проверяет последовательность токенов
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)

	// убираем EOF из сравнения
	if len(tokens) > 0 && tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}

	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)",
				i, expected[i], tok.Kind, tok.Text)
		}
	}
}

// expectSingleToken проверяет, что вход создаёт ровно один токен
func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("Expected kind %v, got %v", expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("Expected text %q, got %q", expectedText, tok.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ====== Идентификаторы и ключевые слова ======

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"foo", token.Ident, "foo"},
		{"_bar", token.Ident, "_bar"},
		{"$ref", token.Ident, "$ref"},
		{"x123", token.Ident, "x123"},
		{"camelCase", token.Ident, "camelCase"},
		{"UPPER", token.Ident, "UPPER"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestKeywords(t *testing.T) {
	// Ключевые слова регистрозависимые
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"let", token.KwLet},
		{"const", token.KwConst},
		{"function", token.KwFunction},
		{"return", token.KwReturn},
		{"if", token.KwIf},
		{"else", token.KwElse},
		{"while", token.KwWhile},
		{"for", token.KwFor},
		{"break", token.KwBreak},
		{"continue", token.KwContinue},
		{"true", token.KwTrue},
		{"false", token.KwFalse},
		{"null", token.KwNull},
		{"undefined", token.KwUndefined},
		{"typeof", token.KwTypeof},
		{"type", token.KwType},
		{"interface", token.KwInterface},
		{"as", token.KwAs},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}

	// Регистр имеет значение
	expectSingleToken(t, "Let", token.Ident, "Let")
}

// ====== Числа ======

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"0", "0"},
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", ".5"},
		{"1e9", "1e9"},
		{"2.5e-3", "2.5e-3"},
		{"0xff", "0xff"},
		{"1_000_000", "1_000_000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, token.NumberLit, tt.text)
		})
	}
}

// ====== Строки ======

func TestStrings(t *testing.T) {
	expectSingleToken(t, `"hello"`, token.StringLit, `"hello"`)
	expectSingleToken(t, `'world'`, token.StringLit, `'world'`)
	expectSingleToken(t, "`multi\nline`", token.TemplateLit, "`multi\nline`")
}

func TestString_Unterminated(t *testing.T) {
	lx, reporter := makeTestLexer(`"oops`)
	collectAllTokens(lx)
	if !reporter.HasErrors() {
		t.Fatal("expected an unterminated string diagnostic")
	}
}

func TestString_NewlineInside(t *testing.T) {
	// Перенос строки внутри обычной строки — ошибка (в отличие от шаблона)
	lx, reporter := makeTestLexer("\"a\nb\"")
	collectAllTokens(lx)
	if !reporter.HasErrors() {
		t.Fatal("expected an error for newline inside a quoted string")
	}
}

// ====== Операторы ======

func TestOperators(t *testing.T) {
	expectTokens(t, "a === b !== c", []token.Kind{
		token.Ident, token.EqEqEq, token.Ident, token.BangEqEq, token.Ident,
	})
	expectTokens(t, "x => x + 1", []token.Kind{
		token.Ident, token.Arrow, token.Ident, token.Plus, token.NumberLit,
	})
	expectTokens(t, "a && b || !c", []token.Kind{
		token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Bang, token.Ident,
	})
	expectTokens(t, "a <= b >= c", []token.Kind{
		token.Ident, token.LtEq, token.Ident, token.GtEq, token.Ident,
	})
}

// ====== Комментарии ======

func TestComments_Skipped(t *testing.T) {
	expectTokens(t, "a // комментарий\nb", []token.Kind{token.Ident, token.Ident})
	expectTokens(t, "a /* block */ b", []token.Kind{token.Ident, token.Ident})
}

func TestBlockComment_Unterminated(t *testing.T) {
	lx, reporter := makeTestLexer("a /* oops")
	collectAllTokens(lx)
	if !reporter.HasErrors() {
		t.Fatal("expected an unterminated block comment diagnostic")
	}
}

// ====== Спаны ======

func TestSpans_MatchSource(t *testing.T) {
	input := "let x = 10"
	lx, _ := makeTestLexer(input)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		got := input[tok.Span.Start:tok.Span.End]
		if got != tok.Text {
			t.Errorf("span mismatch for %v: span text %q, token text %q", tok.Kind, got, tok.Text)
		}
	}
}
