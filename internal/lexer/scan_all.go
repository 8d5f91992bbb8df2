package lexer

import (
	"sandpit/internal/source"
	"sandpit/internal/token"
)

// ScanAll лексит файл целиком и возвращает все значимые токены,
// включая завершающий EOF.
func ScanAll(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}
