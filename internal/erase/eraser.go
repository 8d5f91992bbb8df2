package erase

import (
	"sandpit/internal/diag"
	"sandpit/internal/source"
	"sandpit/internal/token"
)

type frameKind uint8

const (
	frameTop frameKind = iota
	frameParen
	frameBrace       // блок кода
	frameBraceObject // объектный литерал: двоеточия здесь — ключ/значение
	frameBracket
)

type frame struct {
	kind       frameKind
	questions  int  // незакрытые '?' тернарных операторов на этой глубине
	funcHeader bool // frameParen, открытый сразу после заголовка function
}

// eraser walks the token stream once and collects the byte spans of every
// compile-time-only construct. Runtime tokens are never touched.
type eraser struct {
	file     *source.File
	toks     []token.Token
	reporter diag.Reporter

	spans []source.Span
	stack []frame

	// prev/prevPrev — последние НЕстёртые значимые токены
	prev     token.Kind
	prevPrev token.Kind

	inDecl       bool // внутри let/const/var ... ;
	funcState    int  // 0 нет, 1 ждём имя, 2 ждём generics/скобку параметров
	afterFuncRet bool // только что закрыли funcHeader-скобки: допустим ': Ret'
}

func (e *eraser) run() {
	e.stack = []frame{{kind: frameTop}}

	for i := 0; i < len(e.toks); {
		tok := e.toks[i]
		if tok.Kind == token.EOF {
			return
		}
		i = e.step(i)
	}
}

func (e *eraser) top() *frame {
	return &e.stack[len(e.stack)-1]
}

func (e *eraser) push(k frameKind, funcHeader bool) {
	e.stack = append(e.stack, frame{kind: k, funcHeader: funcHeader})
}

func (e *eraser) pop() frame {
	f := *e.top()
	if len(e.stack) > 1 {
		e.stack = e.stack[:len(e.stack)-1]
	}
	return f
}

// erase помечает спаны токенов [from, to) как стираемые.
func (e *eraser) erase(from, to int) {
	if from >= to {
		return
	}
	sp := e.toks[from].Span
	for j := from + 1; j < to; j++ {
		sp = sp.Cover(e.toks[j].Span)
	}
	e.spans = append(e.spans, sp)
}

func (e *eraser) report(code diag.Code, sp source.Span, msg string) {
	if e.reporter != nil {
		e.reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

// advance фиксирует токен i как уцелевший и возвращает i+1.
func (e *eraser) advance(i int) int {
	e.prevPrev = e.prev
	e.prev = e.toks[i].Kind
	e.afterFuncRet = false
	return i + 1
}

// step обрабатывает токен i и возвращает индекс следующего необработанного.
func (e *eraser) step(i int) int {
	tok := e.toks[i]

	switch tok.Kind {
	case token.KwType:
		if e.atStmtStart() && i+1 < len(e.toks) && e.toks[i+1].Kind == token.Ident {
			return e.eraseTypeAlias(i)
		}

	case token.KwInterface:
		if e.atStmtStart() && i+1 < len(e.toks) && e.toks[i+1].Kind == token.Ident {
			return e.eraseInterface(i)
		}

	case token.KwAs:
		return e.eraseAsCast(i)

	case token.Bang:
		// Постфиксный '!' (non-null assertion): стоит сразу после значения.
		switch e.prev {
		case token.Ident, token.RParen, token.RBracket, token.StringLit,
			token.TemplateLit, token.NumberLit:
			e.erase(i, i+1)
			return i + 1
		}

	case token.Question:
		// 'a?: T' — маркер опционального параметра, сам по себе стирается;
		// двоеточие за ним обработает общее правило аннотаций.
		if i+1 < len(e.toks) && e.toks[i+1].Kind == token.Colon {
			e.erase(i, i+1)
			return i + 1
		}
		e.top().questions++

	case token.Colon:
		return e.handleColon(i)

	case token.KwLet, token.KwConst, token.KwVar:
		e.inDecl = true

	case token.Semicolon:
		e.inDecl = false

	case token.KwFunction:
		e.funcState = 1

	case token.Ident:
		if e.funcState == 1 {
			e.funcState = 2
		}

	case token.Lt:
		// generics на объявлении функции: function name<...>(...)
		if e.funcState == 2 {
			return e.eraseGenerics(i)
		}

	case token.LParen:
		e.push(frameParen, e.funcState == 2)
		e.funcState = 0
		e.inDecl = false
		return e.advance(i)

	case token.RParen:
		f := e.pop()
		next := e.advance(i)
		if f.funcHeader {
			e.afterFuncRet = true
		}
		return next

	case token.LBrace:
		if e.isObjectLiteralPosition() {
			e.push(frameBraceObject, false)
		} else {
			e.push(frameBrace, false)
		}
		e.inDecl = false
		return e.advance(i)

	case token.RBrace:
		e.pop()
		e.inDecl = false
		return e.advance(i)

	case token.LBracket:
		e.push(frameBracket, false)
		return e.advance(i)

	case token.RBracket:
		e.pop()
		return e.advance(i)
	}

	return e.advance(i)
}

// atStmtStart сообщает, возможно ли здесь начало statement'а.
func (e *eraser) atStmtStart() bool {
	if e.top().kind == frameBraceObject {
		return false
	}
	switch e.prev {
	case token.Invalid, token.Semicolon, token.LBrace, token.RBrace:
		return true
	default:
		return false
	}
}

// isObjectLiteralPosition определяет, открывает ли '{' объектный литерал.
// Блок кода — после ')' заголовков, '=>', в начале statement'а; объект —
// в позиции выражения.
func (e *eraser) isObjectLiteralPosition() bool {
	switch e.prev {
	case token.Assign, token.LParen, token.LBracket, token.Comma,
		token.KwReturn, token.Colon, token.Question,
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr, token.Bang, token.KwThrow:
		return true
	default:
		return false
	}
}
