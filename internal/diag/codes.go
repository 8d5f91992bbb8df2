package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedTemplate     Code = 1003
	LexUnterminatedBlockComment Code = 1004
	LexBadNumber                Code = 1005

	// Понижение (стирание типов)
	EraseInfo             Code = 2000
	EraseExpectType       Code = 2001
	EraseUnclosedBrace    Code = 2002
	EraseUnclosedAngle    Code = 2003
	EraseUnclosedType     Code = 2004
	EraseDanglingNewline  Code = 2005
	EraseBadRuleset       Code = 2006
	EraseUnexpectedToken  Code = 2007
	EraseUnterminatedDecl Code = 2008

	// Синтаксис исполняемой формы
	SynInfo            Code = 3000
	SynUnexpectedToken Code = 3001
	SynUnclosedParen   Code = 3002
	SynUnclosedBrace   Code = 3003
	SynUnclosedBracket Code = 3004
	SynExpectExpr      Code = 3005
	SynExpectIdent     Code = 3006
	SynExpectSemicolon Code = 3007
	SynBadAssignTarget Code = 3008
	SynNestingTooDeep  Code = 3009

	// Исполнение
	RunInfo           Code = 4000
	RunNotDefined     Code = 4001
	RunNotCallable    Code = 4002
	RunTypeMismatch   Code = 4003
	RunThrow          Code = 4004
	RunBudgetExceeded Code = 4005
	RunConstAssign    Code = 4006
	RunNoProperty     Code = 4007
	RunBadArgument    Code = 4008

	// I/O
	IOLoadFileError Code = 9001
)

// ID returns the stable textual identifier of the code, e.g. "SP1002".
func (c Code) ID() string {
	return fmt.Sprintf("SP%04d", uint16(c))
}

func (c Code) String() string {
	return c.ID()
}
