package application

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/racechart/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MESSAGES
---------------------------------------- */

// DoneMsg reports a finished background action.
type DoneMsg string

// ErrMsg reports a failed action. The user sees the mapped message.
type ErrMsg struct{ Err error }

func (e ErrMsg) Error() string { return e.Err.Error() }

type frameMsg core.Frame

type closedMsg struct{}

type openPromptMsg promptKind

/* ----------------------------------------
	COMMANDS
---------------------------------------- */

// waitForFrame blocks on the subscription until the session publishes.
func waitForFrame(ch <-chan core.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return frameMsg(f)
	}
}

// importFile replaces the session table with the contents of path.
func importFile(sess *core.Session, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("open %s: %w", path, err)}
		}
		defer f.Close()

		_, report, err := sess.Import(f)
		if err != nil {
			return ErrMsg{Err: err}
		}
		msg := fmt.Sprintf("Imported %d rows from %s", report.RowsKept, path)
		if n := len(report.Skipped); n > 0 {
			msg += fmt.Sprintf(" (%d lines skipped)", n)
		}
		return DoneMsg(msg)
	}
}

// writeTemplate writes the current table in import format to path.
func writeTemplate(sess *core.Session, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("create %s: %w", path, err)}
		}
		if err := sess.ExportCSV(f); err != nil {
			f.Close()
			return ErrMsg{Err: fmt.Errorf("write %s: %w", path, err)}
		}
		if err := f.Close(); err != nil {
			return ErrMsg{Err: fmt.Errorf("close %s: %w", path, err)}
		}
		return DoneMsg("Wrote " + path)
	}
}

// loadSample swaps the session table for a registered sample.
func loadSample(sess *core.Session, key string) tea.Cmd {
	return func() tea.Msg {
		def, err := core.GetSample(key)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if _, err := sess.ReplaceTable(def.Table, def.Metric); err != nil {
			return ErrMsg{Err: err}
		}
		return DoneMsg("Loaded sample: " + def.Label)
	}
}
