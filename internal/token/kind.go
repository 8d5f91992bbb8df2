package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// NumberLit represents a numeric literal.
	NumberLit
	// StringLit represents a quoted string literal ('...' or "...").
	StringLit
	// TemplateLit represents a backtick template literal (no interpolation).
	TemplateLit

	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwFunction represents the 'function' keyword.
	KwFunction // function
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwThrow represents the 'throw' keyword.
	KwThrow // throw
	// KwTypeof represents the 'typeof' keyword.
	KwTypeof // typeof
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false
	// KwNull represents the 'null' keyword.
	KwNull // null
	// KwUndefined represents the 'undefined' keyword.
	KwUndefined // undefined

	// Erasure-only keywords: legal in the typed surface syntax, never reach
	// the interpreter because lowering removes the constructs they open.

	// KwType represents the 'type' keyword (type alias declarations).
	KwType // type
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwAs represents the 'as' keyword (cast suffix).
	KwAs // as

	// Operators and punctuation.

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Assign    // =
	EqEq      // ==
	EqEqEq    // ===
	Bang      // !
	BangEq    // !=
	BangEqEq  // !==
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	AndAnd    // &&
	OrOr      // ||
	Amp       // &
	Pipe      // |
	Question  // ?
	Colon     // :
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Arrow     // =>
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = map[Kind]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	NumberLit:   "NumberLit",
	StringLit:   "StringLit",
	TemplateLit: "TemplateLit",
	KwLet:       "let",
	KwConst:     "const",
	KwVar:       "var",
	KwFunction:  "function",
	KwReturn:    "return",
	KwIf:        "if",
	KwElse:      "else",
	KwWhile:     "while",
	KwFor:       "for",
	KwBreak:     "break",
	KwContinue:  "continue",
	KwThrow:     "throw",
	KwTypeof:    "typeof",
	KwTrue:      "true",
	KwFalse:     "false",
	KwNull:      "null",
	KwUndefined: "undefined",
	KwType:      "type",
	KwInterface: "interface",
	KwAs:        "as",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Assign:      "=",
	EqEq:        "==",
	EqEqEq:      "===",
	Bang:        "!",
	BangEq:      "!=",
	BangEqEq:    "!==",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	AndAnd:      "&&",
	OrOr:        "||",
	Amp:         "&",
	Pipe:        "|",
	Question:    "?",
	Colon:       ":",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	Arrow:       "=>",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
