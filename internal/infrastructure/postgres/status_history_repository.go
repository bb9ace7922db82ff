package postgres

import (
	"context"
	"fmt"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

var _ repository.StatusHistoryRepository = (*StatusHistoryRepo)(nil)

// StatusHistoryRepo historial de estados sobre order_status_history y order_item_status_history.
type StatusHistoryRepo struct {
	q Querier
}

// NewStatusHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatusHistoryRepository(q Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{q: q}
}

// AppendOrder agrega una fila al historial del pedido.
func (r *StatusHistoryRepo) AppendOrder(ctx context.Context, h *entity.StatusHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_status_history (id, order_id, status, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`, h.ID, h.OwnerID, h.Status, h.ChangedBy, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order status history: %w", err)
	}
	return nil
}

// AppendItem agrega una fila al historial de la línea.
func (r *StatusHistoryRepo) AppendItem(ctx context.Context, h *entity.StatusHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_item_status_history (id, order_item_id, status, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`, h.ID, h.OwnerID, h.Status, h.ChangedBy, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert item status history: %w", err)
	}
	return nil
}

// ListByOrder historial del pedido en orden cronológico.
func (r *StatusHistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StatusHistory, error) {
	return r.list(ctx, `
		SELECT id, order_id, status, changed_by, created_at
		FROM order_status_history WHERE order_id = $1 ORDER BY seq`, orderID)
}

// ListByItem historial de la línea en orden cronológico.
func (r *StatusHistoryRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.StatusHistory, error) {
	return r.list(ctx, `
		SELECT id, order_item_id, status, changed_by, created_at
		FROM order_item_status_history WHERE order_item_id = $1 ORDER BY seq`, itemID)
}

func (r *StatusHistoryRepo) list(ctx context.Context, query, ownerID string) ([]*entity.StatusHistory, error) {
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()
	var list []*entity.StatusHistory
	for rows.Next() {
		var h entity.StatusHistory
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Status, &h.ChangedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// DeleteByOrder borra el historial del pedido (solo en el borrado del pedido).
func (r *StatusHistoryRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_status_history WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order status history: %w", err)
	}
	return nil
}

// DeleteByItem borra el historial de la línea (solo en el borrado de la línea).
func (r *StatusHistoryRepo) DeleteByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_item_status_history WHERE order_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete item status history: %w", err)
	}
	return nil
}
