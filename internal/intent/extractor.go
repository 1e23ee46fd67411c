package intent

import (
	"strings"
	"time"
)

// UntitledTask replaces an empty extracted title when a task is created.
const UntitledTask = "Untitled Task"

// Extract pulls a title, due date and category out of a message. The title
// may come back empty; callers substitute UntitledTask.
func Extract(message string, now time.Time) TaskDraft {
	return TaskDraft{
		Title:    ExtractTitle(message),
		DueDate:  ExtractDueDate(message, now),
		Category: ExtractCategory(message),
	}
}

func ExtractTitle(message string) string {
	return strings.TrimSpace(titleTriggers.ReplaceAllString(message, ""))
}

// ExtractDueDate returns tomorrow's calendar date (midnight in now's location)
// when any date phrase is present. The phrase itself is not interpreted:
// "today", "friday" and "12/24" all resolve to tomorrow.
func ExtractDueDate(message string, now time.Time) *time.Time {
	for _, p := range datePatterns {
		if p.MatchString(message) {
			due := StartOfDay(now.AddDate(0, 0, 1))
			return &due
		}
	}
	return nil
}

func ExtractCategory(message string) Category {
	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(message) {
			return cp.category
		}
	}
	return CategoryGeneral
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
