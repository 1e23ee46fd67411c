// Package analytics records product events. Events go to a structured log
// and never block or fail the request that produced them.
package analytics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"productivity-assistant/internal/auth"
)

// Envelope is what we record with every event.
type Envelope struct {
	UserID       string
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
}

// FromRequest extracts event envelope fields from request.
// Backend-trustable fields only.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web", "cli":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	return Envelope{
		UserID:       uid,
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

// SourceEventKeyFromRequest returns the client idempotency key, if any.
func SourceEventKeyFromRequest(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("Idempotency-Key")); k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

// Recorder writes events to its logger. A nil Recorder drops everything.
type Recorder struct {
	log *zap.Logger
	now func() time.Time
}

func NewRecorder(log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{log: log.Named("analytics"), now: time.Now}
}

// Log records one event. Events without a user are skipped. Callers pass
// sanitized props only, never raw message text.
func (rec *Recorder) Log(_ context.Context, env Envelope, eventName string, props map[string]any, sourceEventKey string) {
	if rec == nil || eventName == "" || env.UserID == "" {
		return
	}

	fields := []zap.Field{
		zap.String("event_name", eventName),
		zap.Time("event_time", rec.now().UTC()),
		zap.String("user_id", env.UserID),
		zap.String("platform", env.Platform),
	}
	if env.SessionID != "" {
		fields = append(fields, zap.String("session_id", env.SessionID))
	}
	if env.AppVersion != "" {
		fields = append(fields, zap.String("app_version", env.AppVersion))
	}
	if env.DeviceLocale != "" {
		fields = append(fields, zap.String("device_locale", env.DeviceLocale))
	}
	if sourceEventKey != "" {
		fields = append(fields, zap.String("source_event_key", sourceEventKey))
	}
	if len(props) > 0 {
		fields = append(fields, zap.Any("properties", props))
	}
	rec.log.Info("event", fields...)
}

// TierFromRank buckets a priority rank (3 high, 2 medium, 1 low).
func TierFromRank(rank int) string {
	switch {
	case rank >= 3:
		return "P1"
	case rank == 2:
		return "P2"
	default:
		return "P3"
	}
}
