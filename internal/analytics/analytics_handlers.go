package analytics

import (
	"encoding/json"
	"net/http"
	"strings"
)

// clientEvents lists the events a client may report directly, with the
// properties kept for each. Anything else in the body is dropped.
var clientEvents = map[string][]string{
	"app_opened":         {"cold_start", "from"},
	"focus_task_shown":   {"task_id", "priority_tier", "source"},
	"focus_task_changed": {"from_task_id", "to_task_id", "reason"},
	"quick_action_shown": {"action"},
}

// ClientEventHandler accepts {event, properties} from authenticated clients.
func ClientEventHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := FromRequest(r)
		if env.UserID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Event      string         `json:"event"`
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(body.Event)
		allowed, ok := clientEvents[name]
		if !ok {
			http.Error(w, "unknown event", http.StatusBadRequest)
			return
		}

		props := map[string]any{}
		for _, k := range allowed {
			if v, ok := body.Properties[k]; ok {
				props[k] = v
			}
		}
		rec.Log(r.Context(), env, name, props, SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
