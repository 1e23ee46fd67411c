package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
)

// StoreResolver finds the task store of the session behind a request.
type StoreResolver func(r *http.Request) (*Store, error)

// View is a task as shown to clients, with a short priority explanation.
type View struct {
	Task
	Reason string `json:"reason"`
}

func viewsOf(list []Task, rng Rand) []View {
	out := make([]View, 0, len(list))
	for _, t := range list {
		out = append(out, View{Task: t, Reason: Reason(t.Priority, rng)})
	}
	return out
}

// BoardView is Board with reasons attached.
type BoardView struct {
	High   []View `json:"high"`
	Medium []View `json:"medium"`
	Low    []View `json:"low"`
}

func boardViewOf(b Board, rng Rand) BoardView {
	return BoardView{
		High:   viewsOf(b.High, rng),
		Medium: viewsOf(b.Medium, rng),
		Low:    viewsOf(b.Low, rng),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeMutationError maps store errors to status codes.
func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, ErrEmptyTitle):
		http.Error(w, "title is required", http.StatusBadRequest)
	default:
		http.Error(w, "update failed", http.StatusInternalServerError)
	}
}
