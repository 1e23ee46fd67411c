// Package intent turns free-text messages into structured intents using fixed
// keyword and pattern rules.
package intent

import (
	"strings"
	"time"
)

type rule struct {
	typ    Type
	action Action
	match  func(lower string) bool
}

// rules are checked top to bottom and the first match wins. "add a meeting"
// must land on add_task before the schedule rule sees "meeting".
var rules = []rule{
	{TypeAddTask, ActionAddTask, func(s string) bool {
		return containsAny(s, addVerbs) && containsAny(s, addObjects)
	}},
	{TypePrioritize, ActionPrioritizeTasks, func(s string) bool { return containsAny(s, prioritizeKeywords) }},
	{TypeSchedule, ActionOptimizeSchedule, func(s string) bool { return containsAny(s, scheduleKeywords) }},
	{TypeInsights, ActionGenerateInsights, func(s string) bool { return containsAny(s, insightKeywords) }},
	{TypeRecommendations, ActionGenerateRecommendations, func(s string) bool { return containsAny(s, recommendKeywords) }},
}

// Classify maps a message to an intent. now anchors relative due dates in the
// extracted task draft; nothing else depends on it.
func Classify(message string, now time.Time) Intent {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if !r.match(lower) {
			continue
		}
		in := Intent{Type: r.typ, Action: r.action}
		if r.action == ActionAddTask {
			draft := Extract(message, now)
			in.Data = &draft
		}
		return in
	}
	return Intent{Type: TypeConversation, Action: ActionNone}
}
