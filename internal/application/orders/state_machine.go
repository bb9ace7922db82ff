package orders

import (
	"context"
	"fmt"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// StateMachine aplica cambios de estado autorizados por rol sobre líneas y pedidos.
type StateMachine struct {
	items  StatusPolicy
	orders StatusPolicy
	ledger *Ledger
}

// NewStateMachine construye la máquina con los oráculos de línea y de pedido.
func NewStateMachine(items, orders StatusPolicy, ledger *Ledger) *StateMachine {
	return &StateMachine{items: items, orders: orders, ledger: ledger}
}

// ChangeItemStatus mueve item a next. Devuelve false si next es el estado actual (no-op,
// sin fila de historial ni consulta al oráculo). En pedidos COMPLETACION los estados de
// línea no se tocan.
func (m *StateMachine) ChangeItemStatus(ctx context.Context, tx repository.Store, actor entity.Actor, order *entity.Order, item *entity.OrderItem, next string) (bool, error) {
	if !ordering.IsItemStatus(next) {
		return false, domain.Validation("status", "estado de línea desconocido").With("status", next)
	}
	if order.Kind == entity.OrderKindCompletacion {
		return false, domain.Validation("status", "los pedidos de completación no admiten cambios de estado en sus líneas").
			With("order_code", order.OrderCode)
	}
	if next == item.Status {
		return false, nil
	}
	if !m.items.CanRoleChangeStatus(actor.Role, item.Status, next) {
		return false, domain.Forbidden("transición no permitida para el rol").
			With("role", actor.Role).
			With("from", item.Status).
			With("to", next)
	}
	if err := tx.Items().UpdateStatus(ctx, item.ID, next); err != nil {
		return false, fmt.Errorf("actualizar estado de línea: %w", err)
	}
	if err := m.ledger.RecordItem(ctx, tx, item.ID, next, actor); err != nil {
		return false, fmt.Errorf("historial de línea: %w", err)
	}
	item.Status = next
	return true, nil
}

// ChangeOrderStatus mueve el pedido a next con las mismas reglas de no-op y autorización.
func (m *StateMachine) ChangeOrderStatus(ctx context.Context, tx repository.Store, actor entity.Actor, order *entity.Order, next string) (bool, error) {
	if !ordering.IsOrderStatus(next) {
		return false, domain.Validation("status", "estado de pedido desconocido").With("status", next)
	}
	if next == order.Status {
		return false, nil
	}
	if !m.orders.CanRoleChangeStatus(actor.Role, order.Status, next) {
		return false, domain.Forbidden("transición no permitida para el rol").
			With("role", actor.Role).
			With("from", order.Status).
			With("to", next)
	}
	if err := tx.Orders().UpdateStatus(ctx, order.ID, next); err != nil {
		return false, fmt.Errorf("actualizar estado de pedido: %w", err)
	}
	if err := m.ledger.RecordOrder(ctx, tx, order.ID, next, actor); err != nil {
		return false, fmt.Errorf("historial de pedido: %w", err)
	}
	order.Status = next
	return true, nil
}
