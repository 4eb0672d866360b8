package application

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/racechart/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

const (
	minBarWidth = 10
	barRune     = "█"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.closed {
		return "Session closed.\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.playState()))
	b.WriteString("\n\n")
	b.WriteString(m.renderBars())
	b.WriteString("\n")

	switch {
	case m.menu != nil:
		b.WriteString(m.renderMenu())
	case m.prompt != promptNone:
		b.WriteString(m.renderPrompt())
	default:
		b.WriteString(m.renderRows())
	}
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) title() string {
	if m.frame.StepLabel == "" {
		return m.frame.Metric
	}
	return fmt.Sprintf("%s - %s", m.frame.Metric, m.frame.StepLabel)
}

func (m *Model) playState() string {
	state := "paused"
	if m.frame.Playing {
		state = "playing"
	}
	if m.frame.StepCount == 0 {
		return fmt.Sprintf("%s · no steps · %dms", state, m.frame.IntervalMs)
	}
	return fmt.Sprintf("%s · step %d/%d · %dms",
		state, m.frame.StepIndex+1, m.frame.StepCount, m.frame.IntervalMs)
}

func (m *Model) renderBars() string {
	rows := m.frame.Rows
	if len(rows) == 0 {
		return mutedStyle.Render("No rows. Press a to add one.") + "\n"
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}
	barWidth := max(m.width-labelWidth-16, minBarWidth)

	var b strings.Builder
	for _, r := range rows {
		n := int(core.BarFraction(r.Value, m.frame.MaxValue)*float64(barWidth) + 0.5)
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(r.Color)).
			Render(strings.Repeat(barRune, n))

		fmt.Fprintf(&b, "%2d %-*s %s %s\n",
			r.Rank, labelWidth, r.Label, bar, FormatValue(r.Value))
	}
	return b.String()
}

func (m *Model) renderRows() string {
	if len(m.frame.Labels) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(mutedStyle.Render("Rows"))
	b.WriteString("\n")
	for i, label := range m.frame.Labels {
		line := fmt.Sprintf(" %d. %s", i+1, label)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.menu.Title))
	b.WriteString("\n")
	for i, item := range m.menu.Items {
		line := "  " + item.Label
		if i == m.cursor {
			line = selectedStyle.Render("> " + item.Label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimSuffix(b.String(), "\n")) + "\n"
}

func (m *Model) renderPrompt() string {
	title := promptTitles[m.prompt]
	if m.prompt == promptValues {
		title = fmt.Sprintf("%s for %s (%d steps)", title, m.pendingLabel, m.frame.StepCount)
	}
	body := titleStyle.Render(title) + "\n" + m.input.View() + "\n" +
		mutedStyle.Render("enter to confirm, esc to cancel")
	return panelStyle.Render(body) + "\n"
}

// FormatValue renders a value with grouped thousands and one decimal.
func FormatValue(v float64) string {
	return humanize.CommafWithDigits(v, 1)
}
