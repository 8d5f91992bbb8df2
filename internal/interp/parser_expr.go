package interp

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"sandpit/internal/diag"
	"sandpit/internal/token"
)

// Уровни связывания (Pratt). Чем больше — тем сильнее.
const (
	precLowest  = iota
	precAssign  // =
	precTernary // ?:
	precOr      // ||
	precAnd     // &&
	precEq      // == != === !==
	precCmp     // < <= > >=
	precAdd     // + -
	precMul     // * / %
	precUnary   // -x !x typeof x
	precPostfix // call, member, index
)

func infixPrec(k token.Kind) int {
	switch k {
	case token.Assign:
		return precAssign
	case token.Question:
		return precTernary
	case token.OrOr:
		return precOr
	case token.AndAnd:
		return precAnd
	case token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq:
		return precEq
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precCmp
	case token.Plus, token.Minus:
		return precAdd
	case token.Star, token.Slash, token.Percent:
		return precMul
	case token.LParen, token.Dot, token.LBracket:
		return precPostfix
	default:
		return precLowest
	}
}

func (p *Parser) expression() Expr {
	return p.parsePrec(precLowest + 1)
}

func (p *Parser) parsePrec(minPrec int) Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	left := p.unary()
	if left == nil {
		return nil
	}

	for {
		opTok := p.peek()
		prec := infixPrec(opTok.Kind)
		if prec < minPrec {
			return left
		}

		switch opTok.Kind {
		case token.LParen:
			left = p.callExpr(left)
		case token.Dot:
			p.next()
			name, ok := p.expect(token.Ident, diag.SynExpectIdent)
			if !ok {
				return nil
			}
			left = &MemberExpr{X: left, Name: name.Text, Sp: left.Span().Cover(name.Span)}
		case token.LBracket:
			p.next()
			idx := p.expression()
			if idx == nil {
				return nil
			}
			closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket)
			if !ok {
				return nil
			}
			left = &IndexExpr{X: left, I: idx, Sp: left.Span().Cover(closing.Span)}
		case token.Assign:
			p.next()
			switch left.(type) {
			case *IdentExpr, *MemberExpr, *IndexExpr:
			default:
				p.report(diag.SynBadAssignTarget, left.Span(), "invalid assignment target")
				return nil
			}
			// правоассоциативность: a = b = c
			val := p.parsePrec(precAssign)
			if val == nil {
				return nil
			}
			left = &AssignExpr{Target: left, Value: val, Sp: left.Span().Cover(val.Span())}
		case token.Question:
			p.next()
			thenX := p.parsePrec(precLowest + 1)
			if thenX == nil {
				return nil
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken); !ok {
				return nil
			}
			elseX := p.parsePrec(precTernary)
			if elseX == nil {
				return nil
			}
			left = &CondExpr{C: left, T: thenX, F: elseX, Sp: left.Span().Cover(elseX.Span())}
		default:
			p.next()
			right := p.parsePrec(prec + 1)
			if right == nil {
				return nil
			}
			left = &BinaryExpr{Op: opTok.Kind, L: left, R: right, Sp: left.Span().Cover(right.Span())}
		}
		if left == nil {
			return nil
		}
	}
}

func (p *Parser) callExpr(fn Expr) Expr {
	p.next() // '('
	args := []Expr{}
	if !p.at(token.RParen) {
		for {
			a := p.parsePrec(precLowest + 1)
			if a == nil {
				return nil
			}
			args = append(args, a)
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	closing, ok := p.expect(token.RParen, diag.SynUnclosedParen)
	if !ok {
		return nil
	}
	return &CallExpr{Fn: fn, Args: args, Sp: fn.Span().Cover(closing.Span)}
}

func (p *Parser) unary() Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Minus, token.Bang:
		p.next()
		x := p.parsePrec(precUnary)
		if x == nil {
			return nil
		}
		return &UnaryExpr{Op: tok.Kind, X: x, Sp: tok.Span.Cover(x.Span())}
	case token.KwTypeof:
		p.next()
		x := p.parsePrec(precUnary)
		if x == nil {
			return nil
		}
		return &UnaryExpr{Op: tok.Kind, X: x, Sp: tok.Span.Cover(x.Span())}
	case token.Plus:
		// унарный плюс — no-op
		p.next()
		return p.parsePrec(precUnary)
	}
	return p.primary()
}

func (p *Parser) primary() Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.NumberLit:
		p.next()
		val, err := parseNumber(tok.Text)
		if err != nil {
			p.report(diag.SynUnexpectedToken, tok.Span, "invalid number literal "+tok.Text)
			return nil
		}
		return &NumberExpr{Value: val, Sp: tok.Span}

	case token.StringLit, token.TemplateLit:
		p.next()
		return &StringExpr{Value: decodeString(tok.Text), Sp: tok.Span}

	case token.KwTrue:
		p.next()
		return &BoolExpr{Value: true, Sp: tok.Span}
	case token.KwFalse:
		p.next()
		return &BoolExpr{Value: false, Sp: tok.Span}
	case token.KwNull:
		p.next()
		return &NullExpr{Sp: tok.Span}
	case token.KwUndefined:
		p.next()
		return &UndefinedExpr{Sp: tok.Span}

	case token.Ident:
		// 'x => ...' — стрелочная функция с одним параметром
		if p.peekAt(1).Kind == token.Arrow {
			return p.arrowFromIdent()
		}
		p.next()
		return &IdentExpr{Name: tok.Text, Sp: tok.Span}

	case token.LParen:
		if p.isArrowParams() {
			return p.arrowFromParens()
		}
		p.next()
		x := p.expression()
		if x == nil {
			return nil
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil
		}
		return x

	case token.LBracket:
		return p.arrayLiteral()

	case token.LBrace:
		return p.objectLiteral()

	default:
		p.report(diag.SynExpectExpr, tok.Span,
			fmt.Sprintf("expected an expression, found %q", describe(tok)))
		return nil
	}
}

// isArrowParams: lookahead от '(' до парной ')': дальше должно идти '=>'.
func (p *Parser) isArrowParams() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Kind == token.Arrow
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) arrowFromIdent() Expr {
	name := p.next() // Ident
	p.next()         // '=>'
	body := p.arrowBody()
	if body == nil {
		return nil
	}
	return &ArrowExpr{Params: []string{name.Text}, Body: body, Sp: name.Span.Cover(body.Sp)}
}

func (p *Parser) arrowFromParens() Expr {
	open := p.next() // '('
	params, ok := p.paramList()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.Arrow, diag.SynUnexpectedToken); !ok {
		return nil
	}
	body := p.arrowBody()
	if body == nil {
		return nil
	}
	return &ArrowExpr{Params: params, Body: body, Sp: open.Span.Cover(body.Sp)}
}

// arrowBody: блок или выражение (оборачивается в return).
func (p *Parser) arrowBody() *BlockStmt {
	if p.at(token.LBrace) {
		return p.block()
	}
	x := p.parsePrec(precAssign)
	if x == nil {
		return nil
	}
	return &BlockStmt{
		Stmts: []Stmt{&ReturnStmt{X: x, Sp: x.Span()}},
		Sp:    x.Span(),
	}
}

func (p *Parser) arrayLiteral() Expr {
	open := p.next() // '['
	elems := []Expr{}
	if !p.at(token.RBracket) {
		for {
			el := p.parsePrec(precLowest + 1)
			if el == nil {
				return nil
			}
			elems = append(elems, el)
			if !p.eat(token.Comma) {
				break
			}
			if p.at(token.RBracket) {
				break // хвостовая запятая
			}
		}
	}
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedBracket)
	if !ok {
		return nil
	}
	return &ArrayExpr{Elems: elems, Sp: open.Span.Cover(closing.Span)}
}

func (p *Parser) objectLiteral() Expr {
	open := p.next() // '{'
	obj := &ObjectExpr{Sp: open.Span}
	if !p.at(token.RBrace) {
		for {
			keyTok := p.peek()
			var key string
			switch keyTok.Kind {
			case token.Ident:
				key = keyTok.Text
				p.next()
			case token.StringLit:
				key = decodeString(keyTok.Text)
				p.next()
			default:
				if keyTok.IsKeyword() {
					// ключевые слова допустимы как ключи
					key = keyTok.Text
					p.next()
				} else {
					p.report(diag.SynUnexpectedToken, keyTok.Span, "expected a property name")
					return nil
				}
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken); !ok {
				return nil
			}
			val := p.parsePrec(precLowest + 1)
			if val == nil {
				return nil
			}
			obj.Keys = append(obj.Keys, key)
			obj.Vals = append(obj.Vals, val)
			if !p.eat(token.Comma) {
				break
			}
			if p.at(token.RBrace) {
				break
			}
		}
	}
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedBrace)
	if !ok {
		return nil
	}
	obj.Sp = obj.Sp.Cover(closing.Span)
	return obj
}

// parseNumber переводит текст литерала в float64 (подчёркивания игнорируются).
func parseNumber(text string) (float64, error) {
	cleaned := strings.ReplaceAll(text, "_", "")
	if strings.HasPrefix(cleaned, "0x") || strings.HasPrefix(cleaned, "0X") {
		n, err := strconv.ParseUint(cleaned[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		return float64(n), nil
	}
	return strconv.ParseFloat(cleaned, 64)
}

// decodeString снимает кавычки и минимально декодирует escape-последовательности.
// Результат нормализуется в NFC.
func decodeString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return norm.NFC.String(body)
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"', '`':
			b.WriteByte(body[i])
		default:
			// неизвестная последовательность — оставляем как есть
			b.WriteByte(body[i])
		}
	}
	return norm.NFC.String(b.String())
}
