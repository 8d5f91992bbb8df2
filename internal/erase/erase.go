package erase

import (
	"sandpit/internal/diag"
	"sandpit/internal/lexer"
	"sandpit/internal/source"
)

// Lower converts typed surface source into directly executable text.
//
// Чистая функция: один и тот же вход всегда даёт один и тот же выход.
// Стирание работает по спанам: байты стираемых конструкций заменяются
// пробелами (переводы строк сохраняются), поэтому позиции всех уцелевших
// токенов не меняются и ошибки исполнения указывают на исходные строки.
// Ошибки стирания уходят в reporter; при наличии ошибок результат
// использовать нельзя.
func Lower(file *source.File, rs Ruleset, reporter diag.Reporter) string {
	toks := lexer.ScanAll(file, lexer.Options{Reporter: reporter})

	if rs == RulesetPassthrough {
		// Уже исполняемая форма; лексер выше всё равно прогнали,
		// чтобы незакрытые литералы были ошибкой понижения.
		return string(file.Content)
	}

	e := &eraser{
		file:     file,
		toks:     toks,
		reporter: reporter,
	}
	e.run()
	return string(blank(file.Content, e.spans))
}

// blank замещает пробелами все байты стираемых спанов, кроме '\n'.
func blank(content []byte, spans []source.Span) []byte {
	if len(spans) == 0 {
		return content
	}
	out := make([]byte, len(content))
	copy(out, content)
	for _, sp := range spans {
		end := sp.End
		if end > uint32(len(out)) {
			end = uint32(len(out))
		}
		for i := sp.Start; i < end; i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
	}
	return out
}
