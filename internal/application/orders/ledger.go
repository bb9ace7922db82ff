package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// Ledger registra cada cambio de estado efectivo de pedidos y líneas.
// Las filas nunca se modifican; solo desaparecen con el borrado del dueño.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el historial con el reloj dado (nil = time.Now).
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

func (l *Ledger) entry(ownerID, status string, actor entity.Actor) *entity.StatusHistory {
	return &entity.StatusHistory{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Status:    status,
		ChangedBy: actor.UserID,
		CreatedAt: l.now().UTC(),
	}
}

// RecordOrder agrega una fila al historial del pedido.
func (l *Ledger) RecordOrder(ctx context.Context, tx repository.Store, orderID, status string, actor entity.Actor) error {
	return tx.History().AppendOrder(ctx, l.entry(orderID, status, actor))
}

// RecordItem agrega una fila al historial de la línea.
func (l *Ledger) RecordItem(ctx context.Context, tx repository.Store, itemID, status string, actor entity.Actor) error {
	return tx.History().AppendItem(ctx, l.entry(itemID, status, actor))
}
