package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"productivity-assistant/internal/analytics"
	"productivity-assistant/internal/auth"
	"productivity-assistant/internal/profile"
	"productivity-assistant/internal/tasks"
)

var ErrUnauthenticated = errors.New("no user in request context")

// FromRequest resolves the caller's session. Loading is detached from the
// request so a dropped connection cannot leave a half-loaded session cached.
func (r *Registry) FromRequest(req *http.Request) (*Session, error) {
	uid, ok := auth.UserIDFromContext(req.Context())
	if !ok {
		return nil, ErrUnauthenticated
	}
	return r.Session(context.WithoutCancel(req.Context()), uid), nil
}

// TaskStore satisfies tasks.StoreResolver.
func (r *Registry) TaskStore(req *http.Request) (*tasks.Store, error) {
	s, err := r.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.Assistant().Tasks(), nil
}

// UserProfile satisfies profile.Resolver.
func (r *Registry) UserProfile(req *http.Request) (*profile.Profile, error) {
	s, err := r.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.Assistant().Profile(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func MessageHandler(reg *Registry, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		msg := strings.TrimSpace(body.Message)
		if msg == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}

		process(w, r, sess, msg, rec, "")
	}
}

func QuickActionHandler(reg *Registry, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Action string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		msg, ok := QuickActionMessage(body.Action)
		if !ok {
			http.Error(w, "unknown quick action", http.StatusBadRequest)
			return
		}

		process(w, r, sess, msg, rec, body.Action)
	}
}

func process(w http.ResponseWriter, r *http.Request, sess *Session, msg string, rec *analytics.Recorder, quickAction string) {
	reply, err := sess.TryProcess(r.Context(), msg)
	if errors.Is(err, ErrBusy) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	props := map[string]any{
		"intent":      reply.Intent.Type,
		"action":      reply.Intent.Action.String(),
		"fallback":    reply.Fallback,
		"message_len": len(msg),
	}
	if quickAction != "" {
		props["quick_action"] = quickAction
	}
	if reply.Task != nil {
		props["task_id"] = reply.Task.ID
		props["priority_tier"] = analytics.TierFromRank(reply.Task.Priority.Rank())
	}
	rec.Log(r.Context(), analytics.FromRequest(r), "message_processed", props, analytics.SourceEventKeyFromRequest(r))

	writeJSON(w, http.StatusOK, reply)
}

func HistoryHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"history": sess.Assistant().History(),
		})
	}
}

// TaskStatusHandler toggles completion and keeps the completed-today counter
// in step.
func TaskStatusHandler(reg *Registry, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID    string `json:"task_id"`
			Completed *bool  `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == "" {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		if body.Completed == nil {
			http.Error(w, "completed required", http.StatusBadRequest)
			return
		}

		res, err := sess.Assistant().RecordCompletion(r.Context(), body.TaskID, *body.Completed)
		if errors.Is(err, tasks.ErrTaskNotFound) {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "update failed", http.StatusInternalServerError)
			return
		}

		if res.Changed {
			tier := analytics.TierFromRank(res.Task.Priority.Rank())
			age := int(time.Since(res.Task.CreatedAt).Seconds())
			event, props := "task_uncompleted", map[string]any{
				"task_id":                body.TaskID,
				"priority_at_uncomplete": tier,
			}
			if res.Task.Completed {
				event, props = "task_completed", map[string]any{
					"task_id":                body.TaskID,
					"priority_at_completion": tier,
					"time_since_created_sec": age,
				}
			}
			rec.Log(r.Context(), analytics.FromRequest(r), event, props, analytics.SourceEventKeyFromRequest(r))
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func AnalyzeHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"insights": sess.Assistant().AnalyzeProductivityPatterns(r.Context()),
		})
	}
}

func ScheduleHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"schedule": sess.Assistant().SuggestOptimalSchedule(r.Context()),
		})
	}
}

// TipsHandler returns a locally generated insight and recommendation.
func TipsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		a := sess.Assistant()
		writeJSON(w, http.StatusOK, map[string]string{
			"insight":        a.Insight(),
			"recommendation": a.Recommendation(),
		})
	}
}

func StatsHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.FromRequest(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, sess.Assistant().Stats())
	}
}
