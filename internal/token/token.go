package token

import (
	"sandpit/internal/source"
)

// Token represents a single source token with its location.
// Text — ровно исходный срез, без декодирования escape-последовательностей.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, string, or
// null-like literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, TemplateLit, KwTrue, KwFalse, KwNull, KwUndefined:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwLet, KwConst, KwVar, KwFunction, KwReturn, KwIf, KwElse, KwWhile,
		KwFor, KwBreak, KwContinue, KwThrow, KwTypeof, KwTrue, KwFalse,
		KwNull, KwUndefined, KwType, KwInterface, KwAs:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// StartsType reports whether the token can open a type expression in the
// typed surface syntax. Used by the erasure pass, not by the interpreter.
func (t Token) StartsType() bool {
	switch t.Kind {
	case Ident, LBrace, LBracket, LParen, StringLit, NumberLit,
		KwNull, KwUndefined, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}
