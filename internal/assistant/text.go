package assistant

import (
	"fmt"
	"strings"

	"productivity-assistant/internal/profile"
	"productivity-assistant/internal/tasks"
)

var fallbackReplies = []string{
	"Tell me what you want to accomplish, and I'll suggest the fastest next steps.",
	`Try: "add task: ...", "prioritize my tasks", or "show my productivity insights".`,
	"I can schedule tasks, provide recommendations, and analyze your productivity patterns.",
	"Need momentum? Start with one high-priority task and a 25-minute focus block.",
}

var recommendations = []string{
	"Focus on your top 3 high-priority tasks first to get the biggest impact.",
	"Time-block your calendar to protect deep-work windows.",
	"Use 25/5 focus cycles (Pomodoro) to maintain peak performance.",
	"Review and update priorities weekly to stay aligned with goals.",
}

const analysisFallback = "I'm analyzing your productivity patterns and will provide insights shortly. " +
	"In the meantime, focus on your high-priority tasks!"

func pick(list []string, rng tasks.Rand) string {
	return list[rng.IntN(len(list))]
}

func scheduleFallback(peakHours []string) string {
	if len(peakHours) == 0 {
		return "I recommend starting with your highest priority tasks during your peak hours."
	}
	return fmt.Sprintf("I recommend starting with your highest priority tasks during your peak hours: %s.", peakHours[0])
}

// insights renders the four context sentences an insight is picked from.
func insights(uc profile.UserContext, openHigh int) []string {
	progress := "you can do more!"
	if uc.CompletedToday >= 5 {
		progress = "excellent progress!"
	}
	performance := "room for improvement"
	if uc.ProductivityScore >= 80 {
		performance = "outstanding performance"
	}
	return []string{
		fmt.Sprintf("You've completed %d tasks today - %s", uc.CompletedToday, progress),
		fmt.Sprintf("Your productivity score is %d%% - %s", uc.ProductivityScore, performance),
		fmt.Sprintf("Peak productivity hours: %s - schedule important tasks during these times",
			strings.Join(uc.PeakHours, " and ")),
		fmt.Sprintf("You have %d high-priority tasks remaining", openHigh),
	}
}

var quickActions = map[string]string{
	"add-task":   "I'd like to add a new task",
	"prioritize": "Please help me prioritize my tasks",
	"schedule":   "Can you help me optimize my schedule?",
	"insights":   "Show me my productivity insights",
}

// QuickActionMessage maps a quick action name to the message it sends.
func QuickActionMessage(action string) (string, bool) {
	msg, ok := quickActions[strings.ToLower(strings.TrimSpace(action))]
	return msg, ok
}
