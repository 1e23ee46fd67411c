// Package assistant runs the conversation loop: classify a message, ask the
// completion backend for a reply, fall back to canned text when it fails,
// apply the message's action to the task store and record the exchange.
package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"productivity-assistant/internal/ai"
	"productivity-assistant/internal/intent"
	"productivity-assistant/internal/profile"
	"productivity-assistant/internal/tasks"
)

// promptTasks is how many tasks a prioritize prompt shows the model.
const promptTasks = 5

// Assistant owns one session's state. ProcessMessage is not reentrant;
// callers serialize it (see Session).
type Assistant struct {
	tasks     *tasks.Store
	profile   *profile.Profile
	completer ai.Completer
	history   *History
	rand      tasks.Rand
	now       func() time.Time
	log       *zap.Logger
}

type Option func(*Assistant)

func WithLogger(l *zap.Logger) Option {
	return func(a *Assistant) { a.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

func WithRand(r tasks.Rand) Option {
	return func(a *Assistant) { a.rand = r }
}

func WithHistory(h *History) Option {
	return func(a *Assistant) { a.history = h }
}

// New wires an assistant. A nil completer makes every remote call fail, so
// replies always come from the fallback set.
func New(store *tasks.Store, prof *profile.Profile, completer ai.Completer, opts ...Option) *Assistant {
	a := &Assistant{
		tasks:     store,
		profile:   prof,
		completer: completer,
		history:   NewHistory(MaxHistory),
		rand:      tasks.SharedRand{},
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assistant) Tasks() *tasks.Store       { return a.tasks }
func (a *Assistant) Profile() *profile.Profile { return a.profile }
func (a *Assistant) History() []ai.Exchange    { return a.history.Entries() }

// Reply is the full outcome of one processed message.
type Reply struct {
	Text     string        `json:"reply"`
	Intent   intent.Intent `json:"intent"`
	Fallback bool          `json:"fallback"`
	Task     *tasks.Task   `json:"task,omitempty"`
	Note     string        `json:"note,omitempty"`
}

// ProcessMessage returns the reply text for message. It never fails: remote
// errors degrade to a fallback reply.
func (a *Assistant) ProcessMessage(ctx context.Context, message string) string {
	return a.Process(ctx, message).Text
}

// Process is ProcessMessage with the intent, action result and fallback flag.
func (a *Assistant) Process(ctx context.Context, message string) Reply {
	now := a.now()
	in := intent.Classify(message, now)
	a.log.Debug("intent classified",
		zap.String("type", string(in.Type)),
		zap.Stringer("action", in.Action))

	out := Reply{Intent: in}
	text, err := a.complete(ctx, message, string(in.Type), in.Data, now)
	if err != nil {
		a.log.Warn("completion failed, using fallback",
			zap.String("intent", string(in.Type)),
			zap.Error(err))
		text = pick(fallbackReplies, a.rand)
		out.Fallback = true
	}
	out.Text = text

	// the action and history must land even if the caller gave up waiting
	ctx = context.WithoutCancel(ctx)
	a.dispatch(ctx, in, &out)
	a.history.Append(ai.Exchange{Timestamp: now, Message: message, Response: text})
	return out
}

func (a *Assistant) complete(ctx context.Context, message, kind string, draft *intent.TaskDraft, now time.Time) (string, error) {
	if a.completer == nil {
		return "", ai.ErrNoAPIKey
	}
	uc := a.profile.Snapshot()
	count := a.tasks.Len()

	var head []tasks.Task
	if kind == string(intent.TypePrioritize) {
		head = a.tasks.Head(promptTasks)
	}
	return a.completer.Complete(ctx, ai.Request{
		System: ai.SystemPrompt(count, uc),
		User:   ai.BuildMessagePrompt(message, kind, ai.NewMessageContext(now, count, uc), draft, head),
	})
}

func (a *Assistant) dispatch(ctx context.Context, in intent.Intent, out *Reply) {
	switch in.Action {
	case intent.ActionNone:
		return
	case intent.ActionAddTask:
		var draft intent.TaskDraft
		if in.Data != nil {
			draft = *in.Data
		}
		t := a.tasks.Add(ctx, draft)
		out.Task = &t
	case intent.ActionPrioritizeTasks:
		a.tasks.Reorder(ctx)
	case intent.ActionOptimizeSchedule:
		a.log.Info("schedule optimization requested", zap.Int("open_tasks", len(a.tasks.Open())))
	case intent.ActionGenerateInsights:
		out.Note = a.Insight()
	case intent.ActionGenerateRecommendations:
		out.Note = a.Recommendation()
	default:
		a.log.Warn("unhandled action", zap.Stringer("action", in.Action))
		return
	}
	a.log.Debug("action dispatched",
		zap.Stringer("action", in.Action),
		zap.String("note", out.Note))
}

// AnalyzeProductivityPatterns asks for a review of all tasks, the user
// context and the last five exchanges.
func (a *Assistant) AnalyzeProductivityPatterns(ctx context.Context) string {
	prompt := ai.BuildAnalysisPrompt(a.tasks.List(), a.profile.Snapshot(), a.history.Recent(5))
	text, err := a.complete(ctx, prompt, ai.KindAnalysis, nil, a.now())
	if err != nil {
		a.log.Warn("productivity analysis failed, using fallback", zap.Error(err))
		return analysisFallback
	}
	return text
}

// SuggestOptimalSchedule asks for a daily plan over the open tasks.
func (a *Assistant) SuggestOptimalSchedule(ctx context.Context) string {
	uc := a.profile.Snapshot()
	prompt := ai.BuildSchedulePrompt(a.tasks.Open(), uc)
	text, err := a.complete(ctx, prompt, ai.KindScheduling, nil, a.now())
	if err != nil {
		a.log.Warn("schedule suggestion failed, using fallback", zap.Error(err))
		return scheduleFallback(uc.PeakHours)
	}
	return text
}

// Insight picks one sentence derived from the current user context.
func (a *Assistant) Insight() string {
	return pick(insights(a.profile.Snapshot(), a.tasks.CountOpen(tasks.PriorityHigh)), a.rand)
}

func (a *Assistant) Recommendation() string {
	return pick(recommendations, a.rand)
}

// Completion is the result of toggling a task.
type Completion struct {
	Task    tasks.Task          `json:"task"`
	Changed bool                `json:"changed"`
	Context profile.UserContext `json:"context"`
}

// RecordCompletion sets a task's completed flag. Only a transition to
// completed bumps the completed-today counter; unchecking never decrements it.
func (a *Assistant) RecordCompletion(ctx context.Context, id string, completed bool) (Completion, error) {
	was, err := a.tasks.SetCompleted(ctx, id, completed)
	if err != nil {
		return Completion{}, err
	}
	t, _ := a.tasks.FindByID(id)

	res := Completion{Task: t, Changed: was != completed}
	if completed && !was {
		res.Context = a.profile.RecordCompletion(ctx)
	} else {
		res.Context = a.profile.Snapshot()
	}
	return res, nil
}

// Stats is the dashboard summary.
type Stats struct {
	CompletedToday    int `json:"completedTasks"`
	ProductivityScore int `json:"productivityScore"`
	FocusScore        int `json:"focusScore"`
	TotalTasks        int `json:"totalTasks"`
	OpenHigh          int `json:"openHigh"`
	OpenMedium        int `json:"openMedium"`
	OpenLow           int `json:"openLow"`
}

func (a *Assistant) Stats() Stats {
	uc := a.profile.Snapshot()
	return Stats{
		CompletedToday:    uc.CompletedToday,
		ProductivityScore: uc.ProductivityScore,
		FocusScore:        uc.ProductivityScore,
		TotalTasks:        a.tasks.Len(),
		OpenHigh:          a.tasks.CountOpen(tasks.PriorityHigh),
		OpenMedium:        a.tasks.CountOpen(tasks.PriorityMedium),
		OpenLow:           a.tasks.CountOpen(tasks.PriorityLow),
	}
}
