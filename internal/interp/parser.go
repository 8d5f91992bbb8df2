package interp

import (
	"fmt"

	"sandpit/internal/diag"
	"sandpit/internal/source"
	"sandpit/internal/token"
)

// maxParseDepth ограничивает глубину рекурсии разбора. Без него глубоко
// вложенный (но корректный) вход валит горутину фатальным переполнением
// стека, которое recover не ловит.
const maxParseDepth = 256

// Parser — состояние разбора исполняемой формы одного снипета.
// Работает по заранее слексированному срезу токенов: для стрелочных
// функций нужен неограниченный lookahead до '=>'.
type Parser struct {
	toks     []token.Token
	pos      int
	depth    int
	reporter diag.Reporter
	errors   uint
	maxErr   uint
}

// ParseOptions configures a parse run.
type ParseOptions struct {
	Reporter  diag.Reporter
	MaxErrors uint
}

// Parse разбирает токены в Program. Ошибки уходят в reporter, ok=false.
func Parse(toks []token.Token, opts ParseOptions) (*Program, bool) {
	p := &Parser{
		toks:     toks,
		reporter: opts.Reporter,
		maxErr:   opts.MaxErrors,
	}
	if p.maxErr == 0 {
		p.maxErr = 20
	}

	prog := &Program{}
	startSpan := p.peek().Span
	for !p.at(token.EOF) && p.errors < p.maxErr {
		st := p.statement()
		if st == nil {
			p.resync()
			continue
		}
		prog.Stmts = append(prog.Stmts, st)
	}
	prog.Sp = startSpan.Cover(p.peek().Span)
	return prog, p.errors == 0
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	got := p.peek()
	p.report(code, got.Span, fmt.Sprintf("expected %q, found %q", k.String(), describe(got)))
	return got, false
}

func describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of input"
	}
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.errors++
	if p.reporter != nil {
		p.reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

// enter списывает один уровень глубины рекурсии разбора.
// false → лимит превышен, ошибка уже зарепорчена.
func (p *Parser) enter() bool {
	if p.depth >= maxParseDepth {
		p.report(diag.SynNestingTooDeep, p.peek().Span, "input is nested too deeply")
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// resync пропускает токены до границы statement'а после ошибки.
func (p *Parser) resync() {
	for !p.at(token.EOF) {
		if p.eat(token.Semicolon) {
			return
		}
		switch p.peek().Kind {
		case token.KwLet, token.KwConst, token.KwVar, token.KwFunction,
			token.KwIf, token.KwWhile, token.KwFor, token.KwReturn,
			token.KwThrow, token.KwBreak, token.KwContinue, token.RBrace:
			return
		}
		p.next()
	}
}

// ===== Statements =====

func (p *Parser) statement() Stmt {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	// пустые statement'ы пропускаются без рекурсии
	for p.eat(token.Semicolon) {
	}

	tok := p.peek()
	switch tok.Kind {
	case token.KwLet, token.KwConst, token.KwVar:
		return p.varStatement()
	case token.KwFunction:
		return p.funcDecl()
	case token.KwIf:
		return p.ifStatement()
	case token.KwWhile:
		return p.whileStatement()
	case token.KwFor:
		return p.forStatement()
	case token.KwReturn:
		p.next()
		st := &ReturnStmt{Sp: tok.Span}
		if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
			st.X = p.expression()
			if st.X == nil {
				return nil
			}
			st.Sp = st.Sp.Cover(st.X.Span())
		}
		p.eat(token.Semicolon)
		return st
	case token.KwThrow:
		p.next()
		x := p.expression()
		if x == nil {
			return nil
		}
		p.eat(token.Semicolon)
		return &ThrowStmt{X: x, Sp: tok.Span.Cover(x.Span())}
	case token.KwBreak:
		p.next()
		p.eat(token.Semicolon)
		return &BreakStmt{Sp: tok.Span}
	case token.KwContinue:
		p.next()
		p.eat(token.Semicolon)
		return &ContinueStmt{Sp: tok.Span}
	case token.LBrace:
		return p.block()
	case token.EOF:
		return nil
	default:
		x := p.expression()
		if x == nil {
			return nil
		}
		p.eat(token.Semicolon)
		return &ExprStmt{X: x, Sp: x.Span()}
	}
}

// varStatement разбирает 'let a = 1, b = 2;' в BlockStmt из VarDecl'ов
// либо в одиночный VarDecl.
func (p *Parser) varStatement() Stmt {
	kw := p.next()
	decls := make([]Stmt, 0, 1)
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdent)
		if !ok {
			return nil
		}
		d := &VarDecl{Kw: kw.Kind, Name: name.Text, Sp: kw.Span.Cover(name.Span), NameS: name.Span}
		if p.eat(token.Assign) {
			d.Init = p.expression()
			if d.Init == nil {
				return nil
			}
			d.Sp = d.Sp.Cover(d.Init.Span())
		}
		decls = append(decls, d)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.eat(token.Semicolon)
	if len(decls) == 1 {
		return decls[0]
	}
	// несколько деклараторов — плоский список, без новой области видимости
	sp := decls[0].Span().Cover(decls[len(decls)-1].Span())
	return &BlockStmt{Stmts: decls, Sp: sp, Flat: true}
}

func (p *Parser) funcDecl() Stmt {
	kw := p.next()
	name, ok := p.expect(token.Ident, diag.SynExpectIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil
	}
	params, ok := p.paramList()
	if !ok {
		return nil
	}
	body := p.block()
	if body == nil {
		return nil
	}
	return &FuncDecl{
		Name:   name.Text,
		Params: params,
		Body:   body,
		Sp:     kw.Span.Cover(body.Sp),
	}
}

// paramList разбирает идентификаторы до ')' (открывающая скобка уже съедена).
func (p *Parser) paramList() ([]string, bool) {
	params := []string{}
	if p.eat(token.RParen) {
		return params, true
	}
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdent)
		if !ok {
			return nil, false
		}
		params = append(params, name.Text)
		if p.eat(token.Comma) {
			continue
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false
		}
		return params, true
	}
}

func (p *Parser) ifStatement() Stmt {
	kw := p.next()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil
	}
	cond := p.expression()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return nil
	}
	then := p.blockOrSingle()
	if then == nil {
		return nil
	}
	st := &IfStmt{Cond: cond, Then: then, Sp: kw.Span.Cover(then.Sp)}
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			elseIf := p.ifStatement()
			if elseIf == nil {
				return nil
			}
			st.Else = elseIf
			st.Sp = st.Sp.Cover(elseIf.Span())
		} else {
			els := p.blockOrSingle()
			if els == nil {
				return nil
			}
			st.Else = els
			st.Sp = st.Sp.Cover(els.Sp)
		}
	}
	return st
}

func (p *Parser) whileStatement() Stmt {
	kw := p.next()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil
	}
	cond := p.expression()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return nil
	}
	body := p.blockOrSingle()
	if body == nil {
		return nil
	}
	return &WhileStmt{Cond: cond, Body: body, Sp: kw.Span.Cover(body.Sp)}
}

func (p *Parser) forStatement() Stmt {
	kw := p.next()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil
	}
	st := &ForStmt{Sp: kw.Span}

	// init
	if !p.eat(token.Semicolon) {
		switch p.peek().Kind {
		case token.KwLet, token.KwConst, token.KwVar:
			st.Init = p.varStatement() // съедает ';'
		default:
			x := p.expression()
			if x == nil {
				return nil
			}
			st.Init = &ExprStmt{X: x, Sp: x.Span()}
			if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
				return nil
			}
		}
		if st.Init == nil {
			return nil
		}
	}

	// cond
	if !p.at(token.Semicolon) {
		st.Cond = p.expression()
		if st.Cond == nil {
			return nil
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon); !ok {
		return nil
	}

	// post
	if !p.at(token.RParen) {
		st.Post = p.expression()
		if st.Post == nil {
			return nil
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return nil
	}

	body := p.blockOrSingle()
	if body == nil {
		return nil
	}
	st.Body = body
	st.Sp = st.Sp.Cover(body.Sp)
	return st
}

func (p *Parser) block() *BlockStmt {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken)
	if !ok {
		return nil
	}
	b := &BlockStmt{Sp: open.Span}
	for !p.at(token.RBrace) && !p.at(token.EOF) && p.errors < p.maxErr {
		st := p.statement()
		if st == nil {
			p.resync()
			continue
		}
		b.Stmts = append(b.Stmts, st)
	}
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedBrace)
	if !ok {
		return nil
	}
	b.Sp = b.Sp.Cover(closing.Span)
	return b
}

// blockOrSingle: тело if/while/for — блок или одиночный statement.
func (p *Parser) blockOrSingle() *BlockStmt {
	if p.at(token.LBrace) {
		return p.block()
	}
	st := p.statement()
	if st == nil {
		return nil
	}
	return &BlockStmt{Stmts: []Stmt{st}, Sp: st.Span()}
}
