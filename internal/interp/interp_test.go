package interp_test

import (
	"context"
	"strings"
	"testing"

	"sandpit/internal/capture"
	"sandpit/internal/diag"
	"sandpit/internal/interp"
	"sandpit/internal/source"
)

// runSnippet исполняет исходник и возвращает транскрипт
func runSnippet(t *testing.T, src string) *capture.RunResult {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("snippet", []byte(src)))
	return interp.Run(context.Background(), file, interp.Options{})
}

// expectLines сверяет транскрипт построчно: (severity, text)
func expectLines(t *testing.T, res *capture.RunResult, want []capture.TranscriptLine) {
	t.Helper()
	if len(res.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(res.Lines), res.Lines)
	}
	for i, line := range res.Lines {
		if line.Severity != want[i].Severity || line.Text != want[i].Text {
			t.Errorf("line %d: got (%v, %q), want (%v, %q)",
				i, line.Severity, line.Text, want[i].Severity, want[i].Text)
		}
	}
}

// expectOutput — шорткат для успешного запуска с info-строками
func expectOutput(t *testing.T, src string, lines ...string) {
	t.Helper()
	res := runSnippet(t, src)
	if res.Failed {
		t.Fatalf("run failed unexpectedly: %v", res.Lines)
	}
	want := make([]capture.TranscriptLine, len(lines))
	for i, l := range lines {
		want[i] = capture.TranscriptLine{Severity: diag.SevInfo, Text: l}
	}
	expectLines(t, res, want)
}

// expectFailure проверяет, что запуск провалился одной error-строкой,
// содержащей подстроку
func expectFailure(t *testing.T, src, substr string) {
	t.Helper()
	res := runSnippet(t, src)
	if !res.Failed {
		t.Fatalf("expected a failed run, got: %v", res.Lines)
	}
	errLines := 0
	for _, line := range res.Lines {
		if line.Severity == diag.SevError {
			errLines++
			if !strings.Contains(line.Text, substr) {
				t.Errorf("error line %q does not contain %q", line.Text, substr)
			}
		}
	}
	if errLines != 1 {
		t.Errorf("expected exactly one error line, got %d: %v", errLines, res.Lines)
	}
}

// ====== Базовый контракт запуска ======

func TestRun_SimpleExpression(t *testing.T) {
	expectOutput(t, "console.log(1+1)", "2")
}

func TestRun_NoOutputPlaceholder(t *testing.T) {
	res := runSnippet(t, "let x = 42")
	if res.Failed {
		t.Fatal("run must not fail")
	}
	if len(res.Lines) != 1 || res.Lines[0].Severity != diag.SevInfo {
		t.Fatalf("expected exactly one info placeholder line, got %v", res.Lines)
	}
	if !strings.Contains(res.Lines[0].Text, "console.log") {
		t.Errorf("placeholder should point at console.log: %q", res.Lines[0].Text)
	}
}

func TestRun_EmptySource(t *testing.T) {
	res := runSnippet(t, "")
	if res.Failed || len(res.Lines) != 1 {
		t.Fatalf("empty source: expected one placeholder line, got %v", res.Lines)
	}
}

func TestRun_ErrorEmission(t *testing.T) {
	res := runSnippet(t, `console.error("boom")`)
	if !res.Failed {
		t.Fatal("console.error must mark the run failed")
	}
	expectLines(t, res, []capture.TranscriptLine{
		{Severity: diag.SevError, Text: "boom"},
	})
}

func TestRun_UndefinedVariable(t *testing.T) {
	expectFailure(t, "console.log(x)", "x is not defined")
}

func TestRun_SyntaxError(t *testing.T) {
	res := runSnippet(t, "let = 5")
	if !res.Failed || len(res.Lines) != 1 {
		t.Fatalf("expected a single syntax error line, got %v", res.Lines)
	}
	if !strings.HasPrefix(res.Lines[0].Text, "SyntaxError:") {
		t.Errorf("expected SyntaxError prefix: %q", res.Lines[0].Text)
	}
}

func TestRun_DeeplyNestedInput(t *testing.T) {
	// глубокая (но корректная) вложенность не должна валить горутину
	// переполнением стека — парсер обязан вернуть диагностику
	src := "console.log(" + strings.Repeat("(", 2000) + "1" + strings.Repeat(")", 2000) + ")"
	expectFailure(t, src, "nested too deeply")
}

func TestRun_DeeplyNestedBlocks(t *testing.T) {
	src := strings.Repeat("{ ", 2000) + "1" + strings.Repeat(" }", 2000)
	res := runSnippet(t, src)
	if !res.Failed {
		t.Fatalf("expected a failed run, got: %v", res.Lines)
	}
}

func TestRun_Deterministic(t *testing.T) {
	src := `
let acc = 0
for (let i = 0; i < 5; i = i + 1) { acc = acc + i }
console.log({ total: acc, items: [1, "two", true] })
`
	first := runSnippet(t, src)
	second := runSnippet(t, src)
	if len(first.Lines) != len(second.Lines) || first.Failed != second.Failed {
		t.Fatal("two runs of the same source diverged")
	}
	for i := range first.Lines {
		if first.Lines[i] != second.Lines[i] {
			t.Errorf("line %d differs between runs: %q vs %q",
				i, first.Lines[i].Text, second.Lines[i].Text)
		}
	}
}

// ====== Severities ======

func TestConsole_Severities(t *testing.T) {
	res := runSnippet(t, `
console.log("l")
console.info("i")
console.warn("w")
`)
	if res.Failed {
		t.Fatal("warnings must not fail the run")
	}
	expectLines(t, res, []capture.TranscriptLine{
		{Severity: diag.SevInfo, Text: "l"},
		{Severity: diag.SevInfo, Text: "i"},
		{Severity: diag.SevWarning, Text: "w"},
	})
}

func TestConsole_MultipleArgs(t *testing.T) {
	expectOutput(t, `console.log("x =", 1, true)`, "x = 1 true")
}

// ====== Рендеринг значений ======

func TestRender_Values(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"undefined", "undefined"},
		{"null", "null"},
		{"true", "true"},
		{"1.5", "1.5"},
		{"0.1 + 0.2", "0.30000000000000004"},
		{"1/0", "Infinity"},
		{"-1/0", "-Infinity"},
		{"0/0", "NaN"},
		{"'plain'", "plain"},
		{"[1, 'two', true]", `[1, "two", true]`},
		{"{ a: 1, b: [2] }", "{a: 1, b: [2]}"},
		{"1e21", "1e+21"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expectOutput(t, "console.log(("+tt.expr+"))", tt.want)
		})
	}
}

func TestRender_CyclicValue(t *testing.T) {
	// Самоссылающийся массив не должен ронять хост: глубина ограничена
	res := runSnippet(t, `
let a = [1]
a[1] = a
console.log(a)
`)
	if res.Failed {
		t.Fatalf("cyclic render must not fail the run: %v", res.Lines)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("expected one line, got %v", res.Lines)
	}
}

// ====== Переменные и область видимости ======

func TestVars_LetConst(t *testing.T) {
	expectOutput(t, `
let x = 1
x = x + 1
const y = x * 10
console.log(x, y)
`, "2 20")
}

func TestVars_ConstAssignFails(t *testing.T) {
	expectFailure(t, `
const k = 1
k = 2
`, "constant")
}

func TestVars_BlockScope(t *testing.T) {
	expectOutput(t, `
let x = "outer"
{
  let x = "inner"
  console.log(x)
}
console.log(x)
`, "inner", "outer")
}

func TestVars_MultipleDeclarators(t *testing.T) {
	// деклараторы одного statement'а видны объемлющему окружению
	expectOutput(t, `
let a = 1, b = 2;
console.log(a + b)
`, "3")
}

func TestVars_MultipleDeclaratorsConst(t *testing.T) {
	expectFailure(t, `
const a = 1, b = 2;
b = 3
`, "constant")
}

func TestVars_MultipleDeclaratorsInBlock(t *testing.T) {
	expectOutput(t, `
let a = 10
{
  let a = 1, b = 2
  console.log(a + b)
}
console.log(a)
`, "3", "10")
}

// ====== Функции ======

func TestFuncs_DeclarationAndCall(t *testing.T) {
	expectOutput(t, `
function add(a, b) { return a + b }
console.log(add(2, 3))
`, "5")
}

func TestFuncs_Hoisting(t *testing.T) {
	expectOutput(t, `
console.log(twice(4))
function twice(n) { return n * 2 }
`, "8")
}

func TestFuncs_Recursion(t *testing.T) {
	expectOutput(t, `
function fact(n) {
  if (n <= 1) { return 1 }
  return n * fact(n - 1)
}
console.log(fact(10))
`, "3628800")
}

func TestFuncs_Closure(t *testing.T) {
	expectOutput(t, `
function counter() {
  let n = 0
  return () => { n = n + 1; return n }
}
const next = counter()
next()
console.log(next())
`, "2")
}

func TestFuncs_Arrow(t *testing.T) {
	expectOutput(t, `
const square = x => x * x
const add = (a, b) => a + b
console.log(square(5), add(1, 2))
`, "25 3")
}

func TestFuncs_MissingArgsAreUndefined(t *testing.T) {
	expectOutput(t, `
function f(a, b) { return b }
console.log(f(1))
`, "undefined")
}

func TestFuncs_NotCallable(t *testing.T) {
	expectFailure(t, `
let n = 5
n()
`, "not a function")
}

func TestFuncs_DepthLimit(t *testing.T) {
	expectFailure(t, `
function down() { return down() }
down()
`, "call depth")
}

// ====== Управляющие конструкции ======

func TestControl_IfElseChain(t *testing.T) {
	expectOutput(t, `
function grade(n) {
  if (n >= 90) { return "A" } else if (n >= 80) { return "B" } else { return "C" }
}
console.log(grade(95), grade(85), grade(10))
`, "A B C")
}

func TestControl_WhileBreakContinue(t *testing.T) {
	expectOutput(t, `
let sum = 0
let i = 0
while (true) {
  i = i + 1
  if (i > 10) { break }
  if (i % 2 === 0) { continue }
  sum = sum + i
}
console.log(sum)
`, "25")
}

func TestControl_ForLoop(t *testing.T) {
	expectOutput(t, `
let out = ""
for (let i = 0; i < 3; i = i + 1) { out = out + i }
console.log(out)
`, "012")
}

func TestControl_ForLoopMultiInit(t *testing.T) {
	// оба декларатора инициализатора живут в окружении цикла
	expectOutput(t, `
let sum = 0
for (let i = 0, n = 3; i < n; i = i + 1) { sum = sum + i }
console.log(sum)
`, "3")
}

func TestControl_Throw(t *testing.T) {
	expectFailure(t, `throw "broken invariant"`, "broken invariant")
}

// ====== Операторы ======

func TestOps_Equality(t *testing.T) {
	expectOutput(t, `
console.log(1 === 1, "a" === "b", null === null, [1] === [1])
`, "true false true false")
}

func TestOps_Logical(t *testing.T) {
	// && и || возвращают операнд, не булево значение
	expectOutput(t, `
console.log(0 || "fallback", "left" && "right", null && "never")
`, "fallback right null")
}

func TestOps_StringConcat(t *testing.T) {
	expectOutput(t, `console.log("n = " + 42, 1 + "1")`, "n = 42 11")
}

func TestOps_Typeof(t *testing.T) {
	expectOutput(t, `
console.log(typeof 1, typeof "s", typeof true, typeof undefined, typeof null, typeof [], typeof console)
`, "number string boolean undefined object object object")
}

func TestOps_Ternary(t *testing.T) {
	expectOutput(t, `console.log(5 > 3 ? "yes" : "no")`, "yes")
}

func TestOps_ArithmeticTypeError(t *testing.T) {
	expectFailure(t, `let b = true - 1`, "")
}

// ====== Строки и массивы ======

func TestStrings_Members(t *testing.T) {
	expectOutput(t, `
const s = "  Hello, World  "
console.log(s.trim(), s.trim().length)
console.log("abc".toUpperCase(), "XYZ".toLowerCase())
console.log("a,b,c".split(","))
console.log("hello".includes("ell"), "hello".indexOf("l"))
`,
		"Hello, World 12",
		"ABC xyz",
		`["a", "b", "c"]`,
		"true 2")
}

func TestStrings_Index(t *testing.T) {
	expectOutput(t, `
const s = "go"
console.log(s[0], s[1], s[5])
`, "g o undefined")
}

func TestArrays_Members(t *testing.T) {
	expectOutput(t, `
let a = [3, 1]
a.push(2)
console.log(a, a.length)
console.log(a.pop(), a)
console.log(a.join("-"))
console.log(a.includes(3), a.includes(9))
`,
		"[3, 1, 2] 3",
		"2 [3, 1]",
		"3-1",
		"true false")
}

func TestArrays_IndexSemantics(t *testing.T) {
	// Чтение за границей — undefined, запись расширяет массив
	expectOutput(t, `
let a = [1]
console.log(a[5])
a[3] = 9
console.log(a)
`, "undefined", "[1, undefined, undefined, 9]")
}

// ====== Объекты ======

func TestObjects_MemberAccess(t *testing.T) {
	expectOutput(t, `
const user = { name: "Ada", age: 36 }
console.log(user.name, user["age"], user.missing)
`, "Ada 36 undefined")
}

func TestObjects_MemberAssign(t *testing.T) {
	expectOutput(t, `
let o = { a: 1 }
o.a = 2
o.b = 3
console.log(o)
`, "{a: 2, b: 3}")
}

func TestObjects_PropertyOfNull(t *testing.T) {
	expectFailure(t, `
let n = null
console.log(n.field)
`, "null")
}

// ====== Бюджет шагов ======

func TestBudget_InfiniteLoop(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("snippet", []byte("while (true) {}")))
	res := interp.Run(context.Background(), file, interp.Options{StepBudget: 10_000})
	if !res.Failed {
		t.Fatal("infinite loop must exhaust the budget")
	}
	if len(res.Lines) != 1 || !strings.Contains(res.Lines[0].Text, "budget") {
		t.Errorf("expected a budget error line, got %v", res.Lines)
	}
}

// ====== Изоляция ======

func TestSandbox_OnlyConsoleBinding(t *testing.T) {
	// Никаких глобалов хоста в области видимости нет
	expectFailure(t, "Math.max(1, 2)", "Math is not defined")
}

func TestSandbox_ShadowConsole(t *testing.T) {
	// console — обычная привязка; её можно перекрыть, вывод тогда теряется
	res := runSnippet(t, `
{
  let console = null
}
console.log("still here")
`)
	if res.Failed {
		t.Fatalf("shadowing in a block must not affect the outer console: %v", res.Lines)
	}
	expectLines(t, res, []capture.TranscriptLine{
		{Severity: diag.SevInfo, Text: "still here"},
	})
}
