package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"productivity-assistant/internal/tasks"
)

const (
	IconAssistant = "🤖"
	IconTask      = "📝"
	IconDone      = "✅"
	IconFire      = "🔥"
	IconClock     = "⏰"
	IconChart     = "📊"
	IconBulb      = "💡"
	IconWarn      = "⚠️"
	IconError     = "🧨"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)

	Panel      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func PriorityText(p tasks.Priority) string {
	switch p {
	case tasks.PriorityHigh:
		return Bad.Render("high")
	case tasks.PriorityMedium:
		return Warn.Render("medium")
	case tasks.PriorityLow:
		return Good.Render("low")
	default:
		return Muted.Render(string(p))
	}
}
