package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"sandpit/internal/capture"
	"sandpit/internal/diag"
)

// Transcript печатает результат запуска построчно:
// <SEV>  <text>, по одной строке на TranscriptLine, в порядке эмиссии.
func Transcript(w io.Writer, res *capture.RunResult, opts PrettyOpts) {
	for _, line := range res.Lines {
		fmt.Fprintf(w, "%s  %s\n", sevLabel(line.Severity, opts.Color), line.Text)
	}
	if res.Failed {
		status := "run failed"
		if opts.Color {
			status = errColor.Sprint(status)
		}
		fmt.Fprintln(w, status)
	}
}

type transcriptJSON struct {
	Lines  []transcriptLineJSON `json:"lines"`
	Failed bool                 `json:"failed"`
}

type transcriptLineJSON struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
}

// TranscriptJSON сериализует результат запуска для машинного потребителя.
func TranscriptJSON(w io.Writer, res *capture.RunResult) error {
	out := transcriptJSON{
		Lines:  make([]transcriptLineJSON, len(res.Lines)),
		Failed: res.Failed,
	}
	for i, line := range res.Lines {
		out.Lines[i] = transcriptLineJSON{
			Severity: sevName(line.Severity),
			Text:     line.Text,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func sevName(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}
