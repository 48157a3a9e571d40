package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/port"
)

const publishTimeout = 2 * time.Second

// Publishers fans an event out to every non-nil publisher and returns the first error.
type Publishers []port.EventPublisher

func (ps Publishers) Publish(ctx context.Context, event domain.Event) error {
	var first error
	for _, p := range ps {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// notifier publishes after commit. The change is already durable, so a
// failed publish is logged and swallowed.
type notifier struct {
	events port.EventPublisher
	log    *slog.Logger
}

func newNotifier(events port.EventPublisher, log *slog.Logger) notifier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return notifier{events: events, log: log}
}

func (n notifier) notify(ctx context.Context, entity domain.Entity, action domain.Action, id uint) {
	if n.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.Event{Entity: entity, Action: action, ID: id, At: time.Now().UTC()}
	if err := n.events.Publish(ctx, event); err != nil {
		n.log.Warn("event_publish_failed",
			"entity", entity,
			"action", action,
			"id", id,
			"error", err,
		)
	}
}
