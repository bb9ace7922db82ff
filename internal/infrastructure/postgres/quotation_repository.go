package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo lectura de cotizaciones para la conversión.
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

// GetByID obtiene la cotización con sus líneas y adiciones.
// Bloquea la fila (FOR UPDATE) para serializar conversiones concurrentes de la misma cotización.
func (r *QuotationRepo) GetByID(ctx context.Context, id string) (*entity.Quotation, error) {
	var qt entity.Quotation
	err := r.q.QueryRow(ctx, `
		SELECT id, quotation_code, client_id, currency, shipping_fee, iva_enabled, total_products,
			subtotal, total, prefactura_approved, is_active, created_at, updated_at
		FROM quotations WHERE id = $1 FOR UPDATE`, id).Scan(
		&qt.ID, &qt.QuotationCode, &qt.ClientID, &qt.Currency, &qt.ShippingFee, &qt.IvaEnabled, &qt.TotalProducts,
		&qt.Subtotal, &qt.Total, &qt.PrefacturaApproved, &qt.IsActive, &qt.CreatedAt, &qt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, quotation_id, product_id, name, quantity, unit_price, discount,
			fabric, color, process, image_url, notes
		FROM quotation_items WHERE quotation_id = $1 ORDER BY position, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()
	index := make(map[string]int)
	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.Discount,
			&it.Fabric, &it.Color, &it.Process, &it.ImageURL, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		index[it.ID] = len(qt.Items)
		qt.Items = append(qt.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	addRows, err := r.q.Query(ctx, `
		SELECT a.id, a.quotation_item_id, a.name, a.quantity
		FROM quotation_item_additions a
		JOIN quotation_items i ON i.id = a.quotation_item_id
		WHERE i.quotation_id = $1 ORDER BY a.position, a.id`, id)
	if err != nil {
		return nil, fmt.Errorf("list quotation additions: %w", err)
	}
	defer addRows.Close()
	for addRows.Next() {
		var a entity.QuotationItemAddition
		if err := addRows.Scan(&a.ID, &a.QuotationItemID, &a.Name, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan quotation addition: %w", err)
		}
		if i, ok := index[a.QuotationItemID]; ok {
			qt.Items[i].Additions = append(qt.Items[i].Additions, a)
		}
	}
	return &qt, addRows.Err()
}

// MarkReopened deja la cotización editable otra vez.
func (r *QuotationRepo) MarkReopened(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE quotations SET prefactura_approved = false, is_active = true, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("reopen quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
