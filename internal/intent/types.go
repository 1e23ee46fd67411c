package intent

import (
	"fmt"
	"time"
)

// Type is the classified kind of a user message.
type Type string

const (
	TypeAddTask         Type = "add_task"
	TypePrioritize      Type = "prioritize"
	TypeSchedule        Type = "schedule"
	TypeInsights        Type = "insights"
	TypeRecommendations Type = "recommendations"
	TypeConversation    Type = "conversation"
)

// Action is the side effect an intent asks the assistant to perform.
// The zero value means no action.
type Action int

const (
	ActionNone Action = iota
	ActionAddTask
	ActionPrioritizeTasks
	ActionOptimizeSchedule
	ActionGenerateInsights
	ActionGenerateRecommendations
)

func (a Action) String() string {
	switch a {
	case ActionAddTask:
		return "addTask"
	case ActionPrioritizeTasks:
		return "prioritizeTasks"
	case ActionOptimizeSchedule:
		return "optimizeSchedule"
	case ActionGenerateInsights:
		return "generateInsights"
	case ActionGenerateRecommendations:
		return "generateRecommendations"
	default:
		return "none"
	}
}

// MarshalText makes actions readable in JSON and log output.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (a *Action) UnmarshalText(b []byte) error {
	for act := ActionNone; act <= ActionGenerateRecommendations; act++ {
		if act.String() == string(b) {
			*a = act
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", b)
}

// Category groups tasks by life area.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryLearning Category = "learning"
	CategoryFitness  Category = "fitness"
	CategoryGeneral  Category = "general"
)

// TaskDraft holds the unvalidated fields pulled out of a message before scoring.
type TaskDraft struct {
	Title    string     `json:"title"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Category Category   `json:"category"`
}

// Intent is the structured classification of one message.
type Intent struct {
	Type   Type       `json:"type"`
	Action Action     `json:"action"`
	Data   *TaskDraft `json:"data,omitempty"`
}

func (i Intent) HasAction() bool {
	return i.Action != ActionNone
}
