package diagfmt

// PrettyOpts configures pretty-printing of diagnostics and transcripts.
type PrettyOpts struct {
	Color     bool
	Context   bool // печатать строку исходника с подчёркиванием
	ShowNotes bool
}
