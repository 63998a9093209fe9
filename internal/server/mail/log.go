package mail

import (
	"context"

	"github.com/kuba1e/food-delivery/internal/logging"
)

// LogDispatcher writes messages to the log instead of sending them. It is
// used when no SMTP relay is configured. The rendered body only appears at
// debug level.
type LogDispatcher struct {
	renderer *Renderer
	logger   logging.Logger
}

func NewLogDispatcher(r *Renderer, l logging.Logger) *LogDispatcher {
	return &LogDispatcher{renderer: r, logger: l.With("module", "mail")}
}

func (d *LogDispatcher) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := d.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	d.logger.Info(ctx, "email not sent, no smtp relay configured", "to", msg.To, "subject", msg.Subject, "template", msg.Template)
	d.logger.Debug(ctx, "email body", "to", msg.To, "body", body)

	return nil
}
