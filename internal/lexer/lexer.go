package lexer

import (
	"sandpit/internal/source"
	"sandpit/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
	}
}

// Next возвращает следующий **значимый** токен.
// Пробелы и комментарии пропускаются молча: стирание типов работает по
// спанам поверх исходных байт, так что тривия не нужна как данные.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	// 1) Если есть look — вернуть его и очистить
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	// 2) Пропустить пробелы и комментарии
	lx.skipTrivia()

	// 3) Если EOF → вернуть EOF
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Text: "",
		}
	}

	// 4) Посмотреть текущий байт и выбрать сканер
	ch := lx.cursor.Peek()

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()

	case isDec(ch):
		return lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		// . за которым цифра → scanNumber()
		return lx.scanNumber()

	case ch == '"' || ch == '\'':
		return lx.scanString(ch)

	case ch == '`':
		return lx.scanTemplate()

	default:
		// иначе → scanOperatorOrPunct() (скобки, запятые и т.д.)
		return lx.scanOperatorOrPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// File returns the file the lexer reads from.
func (lx *Lexer) File() *source.File {
	return lx.file
}
