// Package orders implementa el ciclo de vida de pedidos y líneas de diseño:
// secuencia de códigos, historial de estados, recálculo del total, máquina de
// estados de las líneas y clonación de pedidos derivados.
package orders

import (
	"context"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// StatusPolicy oráculo de transiciones: decide si un rol puede mover un registro de current a next.
type StatusPolicy interface {
	CanRoleChangeStatus(role, current, next string) bool
}

// Notifier despacha avisos a los usuarios con un permiso. Solo se invoca después del commit
// y sus fallos no afectan la operación.
type Notifier interface {
	Dispatch(ctx context.Context, n entity.Notification) error
}
