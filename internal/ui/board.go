package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"productivity-assistant/internal/tasks"
)

// ShortID is the display form of a task id: its last 8 characters, which
// are random in a UUIDv7.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// TaskLine renders one task with its due date, confidence and reason.
func TaskLine(t tasks.Task, reason string) string {
	box := "[ ]"
	title := t.Title
	if t.Completed {
		box = Good.Render("[x]")
		title = Muted.Render(title)
	}

	due := "No deadline"
	if t.DueDate != nil {
		due = "Due: " + t.DueDate.Format("Jan 2, 2006")
	}

	meta := Muted.Render(fmt.Sprintf("%s · AI Priority: %d%% · %s", due, t.AIScore, ShortID(t.ID)))
	line := fmt.Sprintf("%s %s\n    %s", box, title, meta)
	if reason != "" {
		line += "\n    " + Muted.Render(IconBulb+" "+reason)
	}
	return line
}

func section(title string, list []tasks.Task, rng tasks.Rand) string {
	var b strings.Builder
	b.WriteString(PanelTitle.Render(fmt.Sprintf("%s (%d)", title, len(list))))
	if len(list) == 0 {
		b.WriteString("\n" + Muted.Render("nothing here"))
	}
	for _, t := range list {
		b.WriteString("\n")
		b.WriteString(TaskLine(t, tasks.Reason(t.Priority, rng)))
	}
	return Panel.Render(b.String())
}

// Board renders the open tasks grouped by priority, highest first.
func Board(b tasks.Board, rng tasks.Rand) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		Heading(IconTask, "Tasks"),
		section("High priority", b.High, rng),
		section("Medium priority", b.Medium, rng),
		section("Low priority", b.Low, rng),
	)
}
