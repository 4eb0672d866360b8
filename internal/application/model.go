// Package application is the terminal front end. It drives a core.Session
// with the keyboard and redraws whenever the session publishes a frame.
package application

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/racechart/internal/core"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptLabel
	promptValues
	promptImport
	promptTemplate
	promptMetric
)

var promptTitles = map[promptKind]string{
	promptLabel:    "Row name",
	promptValues:   "Values (comma separated)",
	promptImport:   "CSV file to import",
	promptTemplate: "Write CSV to",
	promptMetric:   "Metric",
}

// Model is the bubbletea model for one race.
type Model struct {
	sess   *core.Session
	frames <-chan core.Frame
	cancel func()
	frame  core.Frame

	keys  keyMap
	help  help.Model
	input textinput.Model

	prompt       promptKind
	pendingLabel string

	menu   *Menu
	cursor int

	selected int
	status   string
	errText  string
	width    int
	closed   bool
}

// New subscribes to sess. Call Close when the program exits.
func New(sess *core.Session) *Model {
	frames, cancel := sess.Subscribe()

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 48

	return &Model{
		sess:   sess,
		frames: frames,
		cancel: cancel,
		frame:  sess.Frame(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  ti,
		width:  80,
	}
}

// Close drops the subscription.
func (m *Model) Close() {
	m.cancel()
}

// Frame returns the last frame the model drew.
func (m *Model) Frame() core.Frame {
	return m.frame
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		m.setFrame(core.Frame(msg))
		return m, waitForFrame(m.frames)

	case closedMsg:
		m.closed = true
		return m, tea.Quit

	case DoneMsg:
		m.status, m.errText = string(msg), ""
		m.setFrame(m.sess.Frame())
		return m, nil

	case ErrMsg:
		m.setError(msg.Err)
		return m, nil

	case openPromptMsg:
		return m, m.openPrompt(promptKind(msg))

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(msg)
		}
		if m.menu != nil {
			return m.handleMenuKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.apply(m.sess.Toggle())

	case key.Matches(msg, m.keys.Reset):
		m.apply(m.sess.Reset())

	case key.Matches(msg, m.keys.Faster):
		ms := m.frame.IntervalMs - int(core.TickIntervalStep.Milliseconds())
		m.apply(m.sess.SetTickInterval(ms))

	case key.Matches(msg, m.keys.Slower):
		ms := m.frame.IntervalMs + int(core.TickIntervalStep.Milliseconds())
		m.apply(m.sess.SetTickInterval(ms))

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.frame.Labels)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Delete):
		if len(m.frame.Labels) == 0 {
			return m, nil
		}
		label := m.frame.Labels[m.selected]
		if m.apply(m.sess.RemoveRow(m.selected)) {
			m.status = "Removed " + label
		}

	case key.Matches(msg, m.keys.Add):
		return m, m.openPrompt(promptLabel)

	case key.Matches(msg, m.keys.Import):
		return m, m.openPrompt(promptImport)

	case key.Matches(msg, m.keys.Write):
		return m, m.openPrompt(promptTemplate)

	case key.Matches(msg, m.keys.Metric):
		return m, m.openPrompt(promptMetric)

	case key.Matches(msg, m.keys.Menu):
		m.menu = buildMenuTree(m)
		m.cursor = 0

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "q":
		m.menu = nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "enter":
		item := m.menu.Items[m.cursor]
		switch {
		case item.Label == "Back":
			m.menu = item.Submenu
			m.cursor = 0
		case item.Submenu != nil:
			m.menu = item.Submenu
			m.cursor = 0
		case item.Action != nil:
			m.menu = nil
			return m, item.Action()
		}
	}
	return m, nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.closePrompt()
		m.pendingLabel = ""
		return m, nil
	case tea.KeyEnter:
		return m, m.submitPrompt(strings.TrimSpace(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openPrompt(kind promptKind) tea.Cmd {
	m.menu = nil
	m.prompt = kind
	m.input.Reset()
	m.input.Placeholder = ""
	switch kind {
	case promptValues:
		m.input.Placeholder = strings.Repeat("0, ", max(m.frame.StepCount-1, 0)) + "0"
	case promptTemplate:
		m.input.Placeholder = "race-data.csv"
	case promptMetric:
		m.input.SetValue(m.frame.Metric)
	}
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) submitPrompt(value string) tea.Cmd {
	kind := m.prompt
	m.closePrompt()

	switch kind {
	case promptLabel:
		if value == "" {
			m.setError(core.ErrInvalidInput)
			return nil
		}
		m.pendingLabel = value
		return m.openPrompt(promptValues)

	case promptValues:
		label := m.pendingLabel
		m.pendingLabel = ""
		if m.apply(m.sess.AddRowText(label, value)) {
			m.status = "Added " + label
		}

	case promptImport:
		if value == "" {
			return nil
		}
		return importFile(m.sess, value)

	case promptTemplate:
		if value == "" {
			value = "race-data.csv"
		}
		return writeTemplate(m.sess, value)

	case promptMetric:
		m.apply(m.sess.SetMetric(value))
	}
	return nil
}

// apply takes the result of a session call, reporting whether it succeeded.
func (m *Model) apply(f core.Frame, err error) bool {
	if err != nil {
		m.setError(err)
		return false
	}
	m.errText = ""
	m.setFrame(f)
	return true
}

func (m *Model) setFrame(f core.Frame) {
	if f.Version < m.frame.Version {
		return
	}
	m.frame = f
	if m.selected >= len(f.Labels) {
		m.selected = max(len(f.Labels)-1, 0)
	}
}

func (m *Model) setError(err error) {
	um := core.MapError(err)
	if um.Code == "ERR000" {
		m.errText = err.Error()
	} else {
		m.errText = fmt.Sprintf("%s (%s)", um.Message, um.Code)
	}
	m.status = ""
}
