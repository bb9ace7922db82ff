package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_code, name, kind, source_order_id, client_id, type, status,
	discount, shipping_fee, currency, iva_enabled, total, created_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.OrderCode, &o.Name, &o.Kind, &o.SourceOrderID, &o.ClientID, &o.Type, &o.Status,
		&o.Discount, &o.ShippingFee, &o.Currency, &o.IvaEnabled, &o.Total, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste un pedido. Un código repetido devuelve domain.ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderCode, o.Name, o.Kind, o.SourceOrderID, o.ClientID, o.Type, o.Status,
		o.Discount, o.ShippingFee, o.Currency, o.IvaEnabled, o.Total, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order_code %s: %w", o.OrderCode, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByCode obtiene un pedido por código sin distinguir mayúsculas.
func (r *OrderRepo) GetByCode(ctx context.Context, code string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE upper(order_code) = upper($1)`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by code: %w", err)
	}
	return o, nil
}

// ListCodesByPrefix códigos de pedido que empiezan por prefix.
func (r *OrderRepo) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.q, `SELECT order_code FROM orders WHERE order_code ILIKE $1 || '%'`, prefix)
}

func listCodes(ctx context.Context, q Querier, query, prefix string) ([]string, error) {
	rows, err := q.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan codes: %w", err)
	}
	return codes, nil
}

// List lista pedidos, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, order_code DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Count total de pedidos.
func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// Update actualiza la cabecera (no el código, el estado ni el total).
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET name = $2, client_id = $3, discount = $4, shipping_fee = $5,
			currency = $6, iva_enabled = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, o.Name, o.ClientID, o.Discount, o.ShippingFee, o.Currency, o.IvaEnabled, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotal persiste el total recalculado.
func (r *OrderRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET total = $2, updated_at = now() WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el pedido; el esquema borra en cascada lo que quede colgando.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
