package orders

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// Outbox acumula las notificaciones generadas dentro de una transacción.
// Flush se llama únicamente cuando la transacción confirmó.
type Outbox struct {
	pending []entity.Notification
}

// Add encola una notificación.
func (o *Outbox) Add(n entity.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	o.pending = append(o.pending, n)
}

// Len cantidad de notificaciones pendientes.
func (o *Outbox) Len() int { return len(o.pending) }

// Flush despacha lo pendiente; un fallo se registra y no se propaga.
func (o *Outbox) Flush(ctx context.Context, n Notifier, log zerolog.Logger) {
	if n == nil {
		o.pending = nil
		return
	}
	for _, item := range o.pending {
		if err := n.Dispatch(ctx, item); err != nil {
			log.Warn().Err(err).
				Str("event", item.Event).
				Str("permission", item.Permission).
				Msg("no se pudo despachar la notificación")
		}
	}
	o.pending = nil
}
