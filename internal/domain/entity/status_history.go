package entity

import "time"

// StatusHistory fila del historial de estados (pedido o línea). Solo se inserta.
type StatusHistory struct {
	ID        string
	OwnerID   string // order_id u order_item_id según la tabla
	Status    string
	ChangedBy string
	CreatedAt time.Time
}
