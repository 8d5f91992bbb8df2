package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sandpit/internal/capture"
	"sandpit/internal/diag"
	"sandpit/internal/interp"
	"sandpit/internal/session"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	sourceStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	infoLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	warnLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	hintStyle      = lipgloss.NewStyle().Faint(true)
	langBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type runDoneMsg struct {
	result *capture.RunResult
	seq    uint64
}

type playgroundModel struct {
	title   string
	sess    *session.Session
	editor  textarea.Model
	spinner spinner.Model
	width   int
	running bool
	seq     uint64 // номер запуска; ответы прошлых запусков игнорируются
}

// NewPlaygroundModel returns a Bubble Tea model hosting one snippet session.
// Редактор показывается только в editable-режиме; в formatted-режиме текст
// рисуется read-only рамкой. Запуск идёт в tea.Cmd, интерфейс не блокируется.
func NewPlaygroundModel(title string, sess *session.Session) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ed := textarea.New()
	ed.SetValue(sess.Text())
	ed.ShowLineNumbers = true
	ed.CharLimit = 0

	return &playgroundModel{
		title:   title,
		sess:    sess,
		editor:  ed,
		spinner: sp,
		width:   80,
	}
}

func (m *playgroundModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *playgroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case runDoneMsg:
		if msg.seq != m.seq {
			// Ответ устаревшего запуска: результат уже заменён.
			return m, nil
		}
		m.running = false
		m.sess.Adopt(msg.result)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.editor.SetWidth(msg.Width - 4)
		}
		return m, nil
	}

	if m.sess.Mode() == session.ModeEditable {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *playgroundModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+r":
		if m.running {
			return m, nil
		}
		m.syncEdits()
		m.running = true
		m.seq++
		seq := m.seq
		// Снапшот входа снимается здесь: правки после нажатия
		// на идущий запуск не влияют.
		text, lang, budget := m.sess.Text(), m.sess.Language(), m.sess.Budget()
		return m, func() tea.Msg {
			res := session.Execute(context.Background(), text, lang,
				interp.Options{StepBudget: budget})
			return runDoneMsg{result: res, seq: seq}
		}

	case "ctrl+t":
		m.syncEdits()
		m.sess.ToggleMode()
		if m.sess.Mode() == session.ModeEditable {
			// Правки переживают любое число переключений.
			m.editor.SetValue(m.sess.Text())
			return m, m.editor.Focus()
		}
		m.editor.Blur()
		return m, nil

	case "ctrl+x":
		m.sess.Reset()
		m.editor.SetValue(m.sess.Text())
		return m, nil
	}

	if m.sess.Mode() == session.ModeEditable {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncEdits переносит текст из редактора в сессию перед действием,
// которое снимает снапшот.
func (m *playgroundModel) syncEdits() {
	if m.sess.Mode() == session.ModeEditable {
		m.sess.Edit(m.editor.Value())
	}
}

func (m *playgroundModel) View() string {
	var b strings.Builder

	header := m.title
	if lang := m.sess.Language(); lang != "" {
		header += " " + langBadgeStyle.Render("["+lang+"]")
	}
	if m.running {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if m.sess.Mode() == session.ModeEditable {
		b.WriteString(m.editor.View())
	} else {
		b.WriteString(sourceStyle.Width(m.width - 4).Render(m.sess.Text()))
	}
	b.WriteString("\n\n")

	b.WriteString(m.transcriptView())

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("ctrl+r run  ctrl+t edit/format  ctrl+x reset  esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *playgroundModel) transcriptView() string {
	res := m.sess.LastResult()
	if res == nil {
		return hintStyle.Render("no runs yet")
	}

	var b strings.Builder
	for _, line := range res.Lines {
		b.WriteString(styleSeverity(line.Severity).Render(truncate(line.Text, m.width-2)))
		b.WriteString("\n")
	}
	if res.Failed {
		b.WriteString(failedStyle.Render(fmt.Sprintf("run #%d failed", m.sess.Runs())))
		b.WriteString("\n")
	}
	return b.String()
}

func styleSeverity(sev diag.Severity) lipgloss.Style {
	switch sev {
	case diag.SevError:
		return errLineStyle
	case diag.SevWarning:
		return warnLineStyle
	default:
		return infoLineStyle
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
