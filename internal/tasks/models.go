package tasks

import (
	"time"

	"productivity-assistant/internal/intent"
)

// SeedTasks is the collection a user starts with before anything is stored.
func SeedTasks(now time.Time, newID func() string) []Task {
	today := intent.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	return []Task{
		{
			ID:        newID(),
			Title:     "Complete quarterly business review presentation",
			Priority:  PriorityHigh,
			DueDate:   &today,
			Category:  intent.CategoryWork,
			CreatedAt: now,
			AIScore:   95,
		},
		{
			ID:        newID(),
			Title:     "Review and respond to client proposal",
			Priority:  PriorityHigh,
			DueDate:   &tomorrow,
			Category:  intent.CategoryWork,
			CreatedAt: now,
			AIScore:   88,
		},
	}
}
