package tasks

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"productivity-assistant/internal/analytics"
)

// DateLayout is the accepted due date format for reschedules.
const DateLayout = "2006-01-02"

// GetTasksHandler lists tasks in store order, or grouped open tasks with
// ?view=board.
func GetTasksHandler(resolve StoreResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := resolve(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if r.URL.Query().Get("view") == "board" {
			writeJSON(w, boardViewOf(store.Board(), store.Rand()))
			return
		}
		writeJSON(w, map[string]any{
			"tasks": viewsOf(store.List(), store.Rand()),
		})
	}
}

func PrioritizeHandler(resolve StoreResolver, rec *analytics.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := resolve(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		store.Reorder(r.Context())
		list := store.List()

		rec.Log(r.Context(), analytics.FromRequest(r), "tasks_prioritized", map[string]any{
			"task_count": len(list),
			"open_high":  store.CountOpen(PriorityHigh),
		}, analytics.SourceEventKeyFromRequest(r))

		writeJSON(w, map[string]any{
			"tasks": viewsOf(list, store.Rand()),
		})
	}
}

// UpdateTaskHandler renames a task.
func UpdateTaskHandler(resolve StoreResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := resolve(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID string `json:"task_id"`
			Title  string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == "" {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		t, err := store.Retitle(r.Context(), body.TaskID, body.Title)
		if err != nil {
			writeMutationError(w, err)
			return
		}
		writeJSON(w, t)
	}
}

// ScheduleTaskHandler moves a task's due date to the start of the given day.
func ScheduleTaskHandler(resolve StoreResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := resolve(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID  string `json:"task_id"`
			DueDate string `json:"due_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == "" {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		due, err := time.ParseInLocation(DateLayout, strings.TrimSpace(body.DueDate), time.Local)
		if err != nil {
			http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		t, err := store.Reschedule(r.Context(), body.TaskID, due)
		if err != nil {
			writeMutationError(w, err)
			return
		}
		writeJSON(w, t)
	}
}
