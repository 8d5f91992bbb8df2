package lexer

import (
	"sandpit/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии (// и /* */).
// Комментарии не превращаются в токены: они остаются в исходных байтах и
// переживают стирание типов без специальной обработки.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.cursor.Bump()

		case b == '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' {
				return
			}
			switch b1 {
			case '/':
				// строчный комментарий — до конца строки
				lx.cursor.Bump()
				lx.cursor.Bump()
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
			case '*':
				lx.skipBlockComment()
			default:
				return
			}

		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			return
		}
		lx.cursor.Bump()
	}
	// EOF без закрывающей */
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
}
