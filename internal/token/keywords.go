package token

var keywords = map[string]Kind{
	"let":       KwLet,
	"const":     KwConst,
	"var":       KwVar,
	"function":  KwFunction,
	"return":    KwReturn,
	"if":        KwIf,
	"else":      KwElse,
	"while":     KwWhile,
	"for":       KwFor,
	"break":     KwBreak,
	"continue":  KwContinue,
	"throw":     KwThrow,
	"typeof":    KwTypeof,
	"true":      KwTrue,
	"false":     KwFalse,
	"null":      KwNull,
	"undefined": KwUndefined,
	"type":      KwType,
	"interface": KwInterface,
	"as":        KwAs,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
