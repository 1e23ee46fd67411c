package ai

import (
	"encoding/json"
	"strings"
	"time"

	"productivity-assistant/internal/intent"
	"productivity-assistant/internal/profile"
	"productivity-assistant/internal/tasks"
)

// Prompt kinds used for requests that do not come from a classified message.
const (
	KindAnalysis   = "analysis"
	KindScheduling = "scheduling"
)

// promptTaskLimit caps how many tasks a prioritize prompt carries.
const promptTaskLimit = 5

// Exchange is one user message and the reply it received.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
}

// MessageContext is the compact state snapshot embedded in every message prompt.
type MessageContext struct {
	CurrentTime       string `json:"currentTime"`
	TasksCount        int    `json:"tasksCount"`
	CompletedToday    int    `json:"completedToday"`
	ProductivityScore int    `json:"productivityScore"`
}

func NewMessageContext(now time.Time, taskCount int, uc profile.UserContext) MessageContext {
	return MessageContext{
		CurrentTime:       now.Format("1/2/2006, 3:04:05 PM"),
		TasksCount:        taskCount,
		CompletedToday:    uc.CompletedToday,
		ProductivityScore: uc.ProductivityScore,
	}
}

// BuildMessagePrompt wraps a user message with its intent and context. The
// add_task draft or the head of the task list is attached depending on kind.
func BuildMessagePrompt(
	message string,
	kind string,
	mc MessageContext,
	draft *intent.TaskDraft,
	current []tasks.Task,
) string {
	var b strings.Builder

	b.WriteString(`USER MESSAGE: "`)
	b.WriteString(message)
	b.WriteString("\"\n")

	b.WriteString("INTENT DETECTED: ")
	b.WriteString(kind)
	b.WriteString("\n")

	b.WriteString("CURRENT CONTEXT: ")
	b.WriteString(toJSON(mc))

	if kind == string(intent.TypeAddTask) && draft != nil {
		b.WriteString("\nTASK TO ADD: ")
		b.WriteString(toJSON(draft))
	}
	if kind == string(intent.TypePrioritize) {
		if len(current) > promptTaskLimit {
			current = current[:promptTaskLimit]
		}
		b.WriteString("\nCURRENT TASKS: ")
		b.WriteString(toJSON(current))
	}

	b.WriteString("\n\nProvide a helpful response that addresses the user's request while offering intelligent productivity insights and recommendations.")
	return b.String()
}

// BuildAnalysisPrompt asks for a productivity review over the whole task
// list, the user context and the most recent exchanges.
func BuildAnalysisPrompt(all []tasks.Task, uc profile.UserContext, recent []Exchange) string {
	var b strings.Builder
	b.WriteString("Analyze this user's productivity data and provide insights:\n")
	b.WriteString("TASKS: ")
	b.WriteString(toJSON(all))
	b.WriteString("\nCONTEXT: ")
	b.WriteString(toJSON(uc))
	b.WriteString("\nHISTORY: ")
	b.WriteString(toJSON(recent))
	b.WriteString(`
Provide:
1. Productivity pattern analysis
2. Optimization recommendations
3. Potential bottlenecks or issues
4. Personalized productivity tips
Be specific and actionable.`)
	return b.String()
}

// BuildSchedulePrompt asks for a daily plan covering the open tasks.
func BuildSchedulePrompt(open []tasks.Task, uc profile.UserContext) string {
	var b strings.Builder
	b.WriteString("Create an optimal daily schedule for this user:\n")
	b.WriteString("TASKS: ")
	b.WriteString(toJSON(open))
	b.WriteString("\nPEAK HOURS: ")
	b.WriteString(strings.Join(uc.PeakHours, ", "))
	b.WriteString("\nWORK STYLE: ")
	b.WriteString(uc.WorkStyle)
	b.WriteString(`
Suggest:
1. Time blocks for each task
2. Break intervals
3. Buffer time for unexpected items
4. Energy management considerations
Format as a practical daily schedule.`)
	return b.String()
}

func toJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
