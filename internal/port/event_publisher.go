package port

import (
	"context"

	"github.com/rl1809/inventario/internal/core/domain"
)

type EventPublisher interface {
	// Publish announces a change that has already been committed
	Publish(ctx context.Context, event domain.Event) error
}
