package email

import (
	"context"
	"time"

	"lifemate-backend/internal/queue"
	"lifemate-backend/internal/shared/telemetry"
)

const directSendTimeout = 15 * time.Second

// Dispatcher routes templated emails to the side-effect queue when one is
// configured, or sends them directly in the background otherwise. Either way
// the caller never blocks on delivery and never sees a failure.
type Dispatcher struct {
	Queue  queue.Client
	Mailer Mailer
}

// Dispatch fires a templated email without blocking the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, to, template string, params map[string]string) {
	if d == nil || to == "" {
		return
	}

	if d.Queue != nil {
		msg := queue.Message{
			Kind:       queue.KindSendEmail,
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
			Email: &queue.EmailTask{
				To:       to,
				Template: template,
				Params:   params,
			},
		}
		if err := d.Queue.Send(ctx, msg); err != nil {
			telemetry.Warn("email.enqueue_failed", map[string]any{
				"template": template,
				"error":    err.Error(),
			})
		}
		return
	}

	if d.Mailer == nil {
		return
	}

	// Detached from the request context so delivery outlives the response.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), directSendTimeout)
		defer cancel()

		msg, err := Render(to, template, params)
		if err != nil {
			telemetry.Warn("email.render_failed", map[string]any{
				"template": template,
				"error":    err.Error(),
			})
			return
		}
		if err := d.Mailer.Send(sendCtx, msg); err != nil {
			telemetry.Warn("email.send_failed", map[string]any{
				"template": template,
				"error":    err.Error(),
			})
		}
	}()
}
