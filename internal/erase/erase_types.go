package erase

import (
	"sandpit/internal/diag"
	"sandpit/internal/token"
)

// handleColon решает судьбу двоеточия: тернарный оператор, ключ объекта
// или аннотация типа. Первые два — рантайм, третья стирается вместе с типом.
func (e *eraser) handleColon(i int) int {
	f := e.top()

	// Незакрытый '?' на этой глубине — двоеточие тернарного оператора.
	if f.questions > 0 {
		f.questions--
		return e.advance(i)
	}

	// Ключ/значение объектного литерала.
	if f.kind == frameBraceObject {
		return e.advance(i)
	}

	// ': Ret' сразу после параметров function-объявления.
	if e.afterFuncRet && e.prev == token.RParen {
		end, ok := e.scanType(i+1, map[token.Kind]bool{token.LBrace: true})
		if !ok {
			return e.advance(i)
		}
		e.erase(i, end)
		return end
	}

	// Аннотация параметра: '(x: T' внутри скобок.
	if f.kind == frameParen && e.prev == token.Ident {
		end, ok := e.scanType(i+1, map[token.Kind]bool{
			token.Comma:  true,
			token.RParen: true,
		})
		if !ok {
			return e.advance(i)
		}
		e.erase(i, end)
		return end
	}

	// Аннотация объявления: 'let x: T' (включая 'let a: T, b: U').
	if e.inDecl && e.prev == token.Ident &&
		(e.prevPrev == token.KwLet || e.prevPrev == token.KwConst ||
			e.prevPrev == token.KwVar || e.prevPrev == token.Comma) {
		end, ok := e.scanType(i+1, map[token.Kind]bool{
			token.Assign:    true,
			token.Semicolon: true,
			token.Comma:     true,
		})
		if !ok {
			return e.advance(i)
		}
		e.erase(i, end)
		return end
	}

	// Возвращаемый тип стрелочной функции: '(a): T => ...'.
	// Пробуем, и стираем только если тип заканчивается на '=>'.
	if e.prev == token.RParen {
		end, ok := e.scanType(i+1, map[token.Kind]bool{token.Arrow: true})
		if ok && end < len(e.toks) && e.toks[end].Kind == token.Arrow {
			e.erase(i, end)
			return end
		}
	}

	return e.advance(i)
}

// scanType съедает выражение типа, начиная с start, и возвращает индекс
// первого токена ПОСЛЕ типа. Скобки <>, {}, [], () балансируются; на нулевой
// глубине остановка по stops, по ключевым словам statement'ов и по EOF.
func (e *eraser) scanType(start int, stops map[token.Kind]bool) (int, bool) {
	if start >= len(e.toks) || e.toks[start].Kind == token.EOF {
		e.report(diag.EraseExpectType, e.toks[start-1].Span, "expected a type after ':'")
		return start, false
	}

	depth := 0
	i := start
	last := token.Invalid
	for i < len(e.toks) {
		tok := e.toks[i]
		if tok.Kind == token.EOF {
			break
		}
		if depth == 0 {
			if stops[tok.Kind] || isStmtKeyword(tok.Kind) {
				break
			}
			// '=>' продолжает функциональный тип '(...) => Ret',
			// в остальных случаях завершает тип
			if tok.Kind == token.Arrow && last != token.RParen {
				break
			}
		}
		switch tok.Kind {
		case token.Lt, token.LBrace, token.LBracket, token.LParen:
			depth++
		case token.Gt, token.RBrace, token.RBracket:
			if depth == 0 {
				// закрывающая скобка объемлющего контекста — конец типа
				goto done
			}
			depth--
		case token.RParen:
			if depth == 0 {
				goto done
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				goto done
			}
		}
		last = tok.Kind
		i++
	}
done:
	if depth > 0 {
		sp := e.toks[start].Span
		if i-1 >= start && i-1 < len(e.toks) {
			sp = sp.Cover(e.toks[i-1].Span)
		}
		e.report(diag.EraseUnclosedType, sp, "unterminated type expression")
		return i, false
	}
	if i == start {
		e.report(diag.EraseExpectType, e.toks[start].Span, "expected a type after ':'")
		return start, false
	}
	return i, true
}

// eraseTypeAlias стирает 'type X = ...;' целиком.
func (e *eraser) eraseTypeAlias(i int) int {
	depth := 0
	j := i + 1
	for j < len(e.toks) {
		tok := e.toks[j]
		if tok.Kind == token.EOF {
			break
		}
		if depth == 0 {
			if tok.Kind == token.Semicolon {
				j++ // точка с запятой тоже стирается
				break
			}
			// очередной statement — алиас закончился без ';'
			if isStmtKeyword(tok.Kind) {
				break
			}
		}
		switch tok.Kind {
		case token.Lt, token.LBrace, token.LBracket, token.LParen:
			depth++
		case token.Gt, token.RBrace, token.RBracket, token.RParen:
			if depth > 0 {
				depth--
			}
		}
		j++
	}
	if depth > 0 {
		e.report(diag.EraseUnterminatedDecl, e.toks[i].Span, "unterminated type alias declaration")
	}
	e.erase(i, j)
	return j
}

// eraseInterface стирает 'interface X { ... }' целиком.
func (e *eraser) eraseInterface(i int) int {
	j := i + 2 // interface + имя
	// опциональные generics на интерфейсе
	if j < len(e.toks) && e.toks[j].Kind == token.Lt {
		depth := 0
		for j < len(e.toks) && e.toks[j].Kind != token.EOF {
			switch e.toks[j].Kind {
			case token.Lt:
				depth++
			case token.Gt:
				depth--
			}
			j++
			if depth == 0 {
				break
			}
		}
	}
	if j >= len(e.toks) || e.toks[j].Kind != token.LBrace {
		e.report(diag.EraseUnterminatedDecl, e.toks[i].Span, "interface declaration requires a '{ ... }' body")
		e.erase(i, j)
		return j
	}
	depth := 0
	for j < len(e.toks) && e.toks[j].Kind != token.EOF {
		switch e.toks[j].Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		j++
		if depth == 0 {
			e.erase(i, j)
			return j
		}
	}
	e.report(diag.EraseUnclosedBrace, e.toks[i].Span, "unclosed interface body")
	e.erase(i, j)
	return j
}

// eraseAsCast стирает 'as Type'.
func (e *eraser) eraseAsCast(i int) int {
	end, ok := e.scanType(i+1, map[token.Kind]bool{
		token.Comma:     true,
		token.Semicolon: true,
		token.RParen:    true,
		token.RBrace:    true,
		token.RBracket:  true,
	})
	if !ok {
		return e.advance(i)
	}
	e.erase(i, end)
	return end
}

// eraseGenerics стирает '<T, ...>' после имени функции.
func (e *eraser) eraseGenerics(i int) int {
	depth := 0
	j := i
	for j < len(e.toks) && e.toks[j].Kind != token.EOF {
		switch e.toks[j].Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		}
		j++
		if depth == 0 {
			e.erase(i, j)
			return j
		}
	}
	e.report(diag.EraseUnclosedAngle, e.toks[i].Span, "unclosed generic parameter list")
	e.erase(i, j)
	return j
}

func isStmtKeyword(k token.Kind) bool {
	switch k {
	case token.KwLet, token.KwConst, token.KwVar, token.KwFunction,
		token.KwIf, token.KwElse, token.KwWhile, token.KwFor,
		token.KwReturn, token.KwThrow, token.KwBreak, token.KwContinue,
		token.KwType, token.KwInterface:
		return true
	default:
		return false
	}
}
