package ui

import (
	"fmt"
	"strings"

	"productivity-assistant/internal/assistant"
)

func Stats(st assistant.Stats) string {
	lines := []string{
		Heading(IconChart, "Today"),
		LabelValue("Completed today", st.CompletedToday),
		LabelValue("Productivity score", fmt.Sprintf("%d%%", st.ProductivityScore)),
		LabelValue("Focus score", fmt.Sprintf("%d%%", st.FocusScore)),
		LabelValue("Open", fmt.Sprintf("%s %d  %s %d  %s %d",
			Bad.Render("high"), st.OpenHigh,
			Warn.Render("medium"), st.OpenMedium,
			Good.Render("low"), st.OpenLow)),
	}
	return strings.Join(lines, "\n")
}

// Reply renders an assistant reply, marking canned fallbacks.
func Reply(text string, fallback bool) string {
	head := H2.Render(IconAssistant + " assistant")
	if fallback {
		head += " " + Muted.Render("(offline)")
	}
	return head + "\n" + text
}
