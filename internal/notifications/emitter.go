package notifications

import (
	"context"

	"github.com/google/uuid"

	"lifemate-backend/internal/shared/telemetry"
)

// Emitter creates in-app notifications. Callers on the request path use
// EmitBestEffort so a feed write never fails a business operation.
type Emitter struct {
	Repo Repo
}

func NewEmitter(repo Repo) *Emitter {
	return &Emitter{Repo: repo}
}

// Event describes one notification to emit. A zero Key means the
// notification is always created; a set Key makes the emit idempotent per
// (user, key).
type Event struct {
	UserID   string
	Role     string
	Type     string
	Title    string
	Message  string
	CTAPath  string
	CTALabel string
	Metadata map[string]string
	Key      EventKey
}

// Emit stores the notification, collapsing duplicates by (user, key). It
// returns the stored record and whether this call created it.
func (e *Emitter) Emit(ctx context.Context, ev Event) (Notification, bool, error) {
	n := Notification{
		ID:       uuid.NewString(),
		UserID:   ev.UserID,
		Role:     ev.Role,
		Type:     ev.Type,
		Title:    ev.Title,
		Message:  ev.Message,
		CTAPath:  ev.CTAPath,
		CTALabel: ev.CTALabel,
		Metadata: ev.Metadata,
	}
	if !ev.Key.IsZero() {
		n.DedupeKey = ev.Key.String()
	}
	return e.Repo.CreateIfAbsent(ctx, n)
}

// EmitBestEffort is Emit with the error logged and swallowed.
func (e *Emitter) EmitBestEffort(ctx context.Context, ev Event) {
	if e == nil {
		return
	}
	if _, _, err := e.Emit(ctx, ev); err != nil {
		telemetry.Warn("notification.emit_failed", map[string]any{
			"user_id": ev.UserID,
			"type":    ev.Type,
			"error":   err.Error(),
		})
	}
}
