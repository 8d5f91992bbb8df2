package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sandpit/internal/diag"
	"sandpit/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	dimColor  = color.New(color.Faint)
)

func sevLabel(sev diag.Severity, colored bool) string {
	switch sev {
	case diag.SevError:
		if colored {
			return errColor.Sprint("error")
		}
		return "error"
	case diag.SevWarning:
		if colored {
			return warnColor.Sprint("warning")
		}
		return "warning"
	default:
		if colored {
			return infoColor.Sprint("info")
		}
		return "info"
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printOne(w, d, fs, opts)
	}
}

func printOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	path := "<input>"
	if file != nil {
		path = file.Path
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		sevLabel(d.Severity, opts.Color), d.Code.ID(), d.Message)

	if opts.Context && file != nil && !d.Primary.Empty() {
		printContext(w, file, start, end, opts)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			noteLine := fmt.Sprintf("  note: %s (%d:%d)", n.Msg, ns.Line, ns.Col)
			if opts.Color {
				noteLine = dimColor.Sprint(noteLine)
			}
			fmt.Fprintln(w, noteLine)
		}
	}
}

// printContext печатает строку исходника и подчёркивание ^~~~ под спаном.
// Колонки считаются в байтах; для снипетов ASCII этого достаточно,
// широкие руны лишь сдвинут хвост подчёркивания.
func printContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\r\n"))

	caretLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		caretLen = int(end.Col - start.Col)
	}
	underline := strings.Repeat(" ", int(start.Col)-1) + "^" + strings.Repeat("~", caretLen-1)
	if opts.Color {
		underline = errColor.Sprint(underline)
	}
	fmt.Fprintf(w, "  %s\n", underline)
}
