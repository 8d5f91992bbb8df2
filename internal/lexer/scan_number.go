package lexer

import (
	"sandpit/internal/diag"
	"sandpit/internal/token"
)

// Поддержка: 0, 123, 0x..., 1.5, .5, 1e-3, 1.0e+10.
// Неверные формы — репорт в opts.Reporter, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	emit := func(kind token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	// ведущая точка — значит формат ".digits"
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump() // '.'
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after '.'")
			return emit(token.Invalid)
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		lx.scanExponent(start)
		return emit(token.NumberLit)
	}

	// 0x... — шестнадцатеричный
	if lx.cursor.Peek() == '0' {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !isHex(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected hex digit after '0x'")
				return emit(token.Invalid)
			}
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return emit(token.NumberLit)
		}
	}

	// десятичная целая часть
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// дробная часть
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump() // '.'
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	lx.scanExponent(start)
	return emit(token.NumberLit)
}

// scanExponent съедает опциональный [eE][+-]?digits.
func (lx *Lexer) scanExponent(start Mark) {
	b := lx.cursor.Peek()
	if b != 'e' && b != 'E' {
		return
	}
	// экспонента обязана содержать хотя бы одну цифру
	b0, b1, ok := lx.cursor.Peek2()
	_ = b0
	if !ok {
		return
	}
	if isDec(b1) {
		lx.cursor.Bump() // e
	} else if b1 == '+' || b1 == '-' {
		_, _, b2, ok3 := lx.cursor.Peek3()
		if !ok3 || !isDec(b2) {
			return
		}
		lx.cursor.Bump() // e
		lx.cursor.Bump() // знак
	} else {
		return
	}
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}
