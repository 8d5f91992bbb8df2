package erase_test

import (
	"testing"

	"sandpit/internal/diag"
	"sandpit/internal/erase"
	"sandpit/internal/lexer"
	"sandpit/internal/source"
	"sandpit/internal/token"
)

// lowerText понижает вход и возвращает результат вместе с диагностиками
func lowerText(input string, rs erase.Ruleset) (string, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.ts", []byte(input)))
	bag := diag.NewBag(32)
	out := erase.Lower(file, rs, diag.BagReporter{Bag: bag})
	return out, bag
}

// scanKinds лексит текст и возвращает пары (kind, text) без EOF
func scanKinds(input string) []token.Token {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("scan.ts", []byte(input)))
	toks := lexer.ScanAll(file, lexer.Options{Reporter: diag.NopReporter{}})
	if len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// expectLowered сверяет поток токенов пониженного входа с эталоном.
// Сравнение по токенам, а не по байтам: стирание заменяет конструкции
// пробелами, и раскладка пробелов — не часть контракта.
func expectLowered(t *testing.T, input, want string) {
	t.Helper()
	out, bag := lowerText(input, erase.RulesetErase)
	if bag.HasErrors() {
		first, _ := bag.FirstError()
		t.Fatalf("unexpected lowering error for %q: %s", input, first.Message)
	}
	if len(out) != len(input) {
		t.Errorf("lowering changed text length: %d -> %d", len(input), len(out))
	}

	got := scanKinds(out)
	wanted := scanKinds(want)
	if len(got) != len(wanted) {
		t.Fatalf("token count mismatch\ninput:   %q\nlowered: %q\nwant:    %q", input, out, want)
	}
	for i := range got {
		if got[i].Kind != wanted[i].Kind || got[i].Text != wanted[i].Text {
			t.Errorf("token %d: got %v(%q), want %v(%q)",
				i, got[i].Kind, got[i].Text, wanted[i].Kind, wanted[i].Text)
		}
	}
}

func expectLoweringError(t *testing.T, input string) {
	t.Helper()
	_, bag := lowerText(input, erase.RulesetErase)
	if !bag.HasErrors() {
		t.Fatalf("expected a lowering error for %q", input)
	}
}

// ====== Наборы правил ======

func TestRulesetFor(t *testing.T) {
	tests := []struct {
		lang     string
		rs       erase.Ruleset
		runnable bool
	}{
		{"ts", erase.RulesetErase, true},
		{"typescript", erase.RulesetErase, true},
		{"js", erase.RulesetPassthrough, true},
		{"javascript", erase.RulesetPassthrough, true},
		{"", erase.RulesetPassthrough, true},
		{"python", erase.RulesetPassthrough, false},
	}
	for _, tt := range tests {
		rs, ok := erase.RulesetFor(tt.lang)
		if rs != tt.rs || ok != tt.runnable {
			t.Errorf("RulesetFor(%q) = (%v, %v), want (%v, %v)",
				tt.lang, rs, ok, tt.rs, tt.runnable)
		}
	}
}

func TestPassthrough_Identical(t *testing.T) {
	input := "const x: число = 1 // даже мусор проходит как есть\n"
	out, bag := lowerText(input, erase.RulesetPassthrough)
	if bag.HasErrors() {
		t.Fatal("passthrough must not produce erasure diagnostics for valid lexemes")
	}
	if out != input {
		t.Errorf("passthrough changed text:\n%q\n%q", input, out)
	}
}

func TestPassthrough_StillLexes(t *testing.T) {
	// Незакрытая строка — ошибка понижения даже без стирания
	_, bag := lowerText(`console.log("oops`, erase.RulesetPassthrough)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for an unterminated string")
	}
}

// ====== Аннотации типов ======

func TestErase_DeclAnnotations(t *testing.T) {
	expectLowered(t, "let x: number = 10", "let x = 10")
	expectLowered(t, "const s: string = 'hi'", "const s = 'hi'")
	expectLowered(t, "let arr: number[] = [1, 2]", "let arr = [1, 2]")
	expectLowered(t, "let m: Map<string, number> = f()", "let m = f()")
	expectLowered(t, "let a: number, b: string", "let a , b")
}

func TestErase_FunctionAnnotations(t *testing.T) {
	expectLowered(t,
		"function add(a: number, b: number): number { return a + b; }",
		"function add(a , b ) { return a + b; }")
	expectLowered(t,
		"function greet(name: string): void { console.log(name); }",
		"function greet(name ) { console.log(name); }")
}

func TestErase_ArrowAnnotations(t *testing.T) {
	expectLowered(t,
		"const double = (x: number): number => x * 2",
		"const double = (x ) => x * 2")
	expectLowered(t,
		"const f: (x: number) => number = (x) => x",
		"const f = (x) => x")
}

func TestErase_OptionalParams(t *testing.T) {
	expectLowered(t,
		"function f(a: number, b?: string) { return a; }",
		"function f(a , b ) { return a; }")
}

func TestErase_Generics(t *testing.T) {
	expectLowered(t,
		"function identity<T>(x: T): T { return x; }",
		"function identity (x ) { return x; }")
}

// ====== Целые объявления ======

func TestErase_TypeAlias(t *testing.T) {
	expectLowered(t,
		"type Point = { x: number; y: number };\nlet p = 1",
		"let p = 1")
}

func TestErase_Interface(t *testing.T) {
	expectLowered(t,
		"interface User { name: string; age: number }\nlet u = 0",
		"let u = 0")
}

// ====== Суффиксы ======

func TestErase_AsCast(t *testing.T) {
	expectLowered(t, "let n = value as number", "let n = value")
	expectLowered(t, "let s = (x as string).length", "let s = (x ).length")
}

func TestErase_NonNull(t *testing.T) {
	expectLowered(t, "let y = x! + 1", "let y = x + 1")
	expectLowered(t, "user!.profile", "user .profile")
}

// ====== Что стирание обязано НЕ трогать ======

func TestKeep_Ternary(t *testing.T) {
	expectLowered(t, "let r = ok ? 1 : 2", "let r = ok ? 1 : 2")
	expectLowered(t,
		"let r = a ? b : c ? d : e",
		"let r = a ? b : c ? d : e")
}

func TestKeep_ObjectLiterals(t *testing.T) {
	expectLowered(t, "let o = { a: 1, b: 'two' }", "let o = { a: 1, b: 'two' }")
	expectLowered(t,
		"let mixed: Config = { retries: 3 }",
		"let mixed = { retries: 3 }")
}

func TestKeep_LogicalNot(t *testing.T) {
	// Префиксный '!' — оператор, а не non-null
	expectLowered(t, "let b = !ok", "let b = !ok")
	expectLowered(t, "if (!done) { step() }", "if (!done) { step() }")
}

func TestKeep_Comparisons(t *testing.T) {
	// '<' в выражении — сравнение, не дженерик
	expectLowered(t, "let less = a < b", "let less = a < b")
	expectLowered(t, "while (i < 10) { i = i + 1 }", "while (i < 10) { i = i + 1 }")
}

// ====== Позиции ======

func TestPositions_Preserved(t *testing.T) {
	input := "let x: number = 10\nconsole.log(x)"
	out, bag := lowerText(input, erase.RulesetErase)
	if bag.HasErrors() {
		t.Fatal("unexpected lowering error")
	}

	// console на второй строке обязан остаться на своём смещении
	wantOff := len("let x: number = 10\n")
	if out[wantOff:wantOff+7] != "console" {
		t.Errorf("surviving token moved: %q", out[wantOff:wantOff+7])
	}
}

// ====== Ошибки понижения ======

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"annotation without type", "let x: = 10"},
		{"unclosed generic", "function f<T(x) { }"},
		{"unterminated interface", "interface X { a: number"},
		{"unterminated string", `let s = "oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectLoweringError(t, tt.input)
		})
	}
}
