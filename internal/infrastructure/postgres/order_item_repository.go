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

var _ repository.OrderItemRepository = (*OrderItemRepo)(nil)

// OrderItemRepo persistencia de líneas de diseño y sus sub-registros.
type OrderItemRepo struct {
	q Querier
}

// NewOrderItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderItemRepository(q Querier) *OrderItemRepo {
	return &OrderItemRepo{q: q}
}

const itemColumns = `id, order_id, product_id, name, quantity, unit_price, total_price, status,
	requires_revision, is_active, is_addition, fabric, color, process, trims, neck_type,
	image_url, observations, evidence, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.OrderItem, error) {
	var it entity.OrderItem
	err := row.Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.Status,
		&it.RequiresRevision, &it.IsActive, &it.IsAddition, &it.Fabric, &it.Color, &it.Process, &it.Trims, &it.NeckType,
		&it.ImageURL, &it.Observations, &it.Evidence, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserta una línea.
func (r *OrderItemRepo) Create(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, now(), now())`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.TotalPrice, it.Status,
		it.RequiresRevision, it.IsActive, it.IsAddition, it.Fabric, it.Color, it.Process, it.Trims, it.NeckType,
		it.ImageURL, it.Observations, it.Evidence,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID.
func (r *OrderItemRepo) GetByID(ctx context.Context, id string) (*entity.OrderItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM order_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}
	return it, nil
}

// ListByOrder líneas del pedido en orden de creación.
func (r *OrderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY seq`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update reescribe los campos editables de la línea.
func (r *OrderItemRepo) Update(ctx context.Context, it *entity.OrderItem) error {
	query := `
		UPDATE order_items SET product_id = $2, name = $3, quantity = $4, unit_price = $5, total_price = $6,
			status = $7, requires_revision = $8, is_active = $9, fabric = $10, color = $11, process = $12,
			trims = $13, neck_type = $14, image_url = $15, observations = $16, evidence = $17, updated_at = $18
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.TotalPrice,
		it.Status, it.RequiresRevision, it.IsActive, it.Fabric, it.Color, it.Process,
		it.Trims, it.NeckType, it.ImageURL, it.Observations, it.Evidence, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *OrderItemRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE order_items SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la línea.
func (r *OrderItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}

// ListPackaging filas de empaque de la línea.
func (r *OrderItemRepo) ListPackaging(ctx context.Context, itemID string) ([]*entity.Packaging, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_item_id, mode, size, quantity, person_name, person_number
		FROM order_item_packaging WHERE order_item_id = $1 ORDER BY seq`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list packaging: %w", err)
	}
	defer rows.Close()
	var list []*entity.Packaging
	for rows.Next() {
		var p entity.Packaging
		if err := rows.Scan(&p.ID, &p.OrderItemID, &p.Mode, &p.Size, &p.Quantity, &p.PersonName, &p.PersonNumber); err != nil {
			return nil, fmt.Errorf("scan packaging: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ReplacePackaging borra el empaque de la línea e inserta rows.
func (r *OrderItemRepo) ReplacePackaging(ctx context.Context, itemID string, rows []*entity.Packaging) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_item_packaging WHERE order_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete packaging: %w", err)
	}
	for _, p := range rows {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_item_packaging (id, order_item_id, mode, size, quantity, person_name, person_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, itemID, p.Mode, p.Size, p.Quantity, p.PersonName, p.PersonNumber)
		if err != nil {
			return fmt.Errorf("insert packaging: %w", err)
		}
	}
	return nil
}

// ListSocks filas de medias de la línea.
func (r *OrderItemRepo) ListSocks(ctx context.Context, itemID string) ([]*entity.Sock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_item_id, size, quantity, description, image_url
		FROM order_item_socks WHERE order_item_id = $1 ORDER BY seq`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list socks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sock
	for rows.Next() {
		var s entity.Sock
		if err := rows.Scan(&s.ID, &s.OrderItemID, &s.Size, &s.Quantity, &s.Description, &s.ImageURL); err != nil {
			return nil, fmt.Errorf("scan sock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ReplaceSocks borra las medias de la línea e inserta rows.
func (r *OrderItemRepo) ReplaceSocks(ctx context.Context, itemID string, rows []*entity.Sock) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_item_socks WHERE order_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete socks: %w", err)
	}
	for _, s := range rows {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_item_socks (id, order_item_id, size, quantity, description, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, itemID, s.Size, s.Quantity, s.Description, s.ImageURL)
		if err != nil {
			return fmt.Errorf("insert sock: %w", err)
		}
	}
	return nil
}

// ListMaterials materiales de la línea.
func (r *OrderItemRepo) ListMaterials(ctx context.Context, itemID string) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_item_id, inventory_item_id, quantity, note
		FROM order_item_materials WHERE order_item_id = $1 ORDER BY seq`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.OrderItemID, &m.InventoryItemID, &m.Quantity, &m.Note); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ReplaceMaterials borra los materiales de la línea e inserta rows.
func (r *OrderItemRepo) ReplaceMaterials(ctx context.Context, itemID string, rows []*entity.Material) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_item_materials WHERE order_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete materials: %w", err)
	}
	for _, m := range rows {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_item_materials (id, order_item_id, inventory_item_id, quantity, note)
			VALUES ($1, $2, $3, $4, $5)`,
			m.ID, itemID, m.InventoryItemID, m.Quantity, m.Note)
		if err != nil {
			return fmt.Errorf("insert material: %w", err)
		}
	}
	return nil
}

// CreateAddition inserta una adición. Sin la tabla devuelve domain.ErrSchemaMissing.
func (r *OrderItemRepo) CreateAddition(ctx context.Context, a *entity.OrderItemAddition) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_item_additions (id, order_item_id, name, quantity)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.OrderItemID, a.Name, a.Quantity)
	if err != nil {
		if isUndefinedTable(err) {
			return fmt.Errorf("order_item_additions: %w", domain.ErrSchemaMissing)
		}
		return fmt.Errorf("insert addition: %w", err)
	}
	return nil
}

// ListAdditions adiciones de la línea. Sin la tabla devuelve una lista vacía.
func (r *OrderItemRepo) ListAdditions(ctx context.Context, itemID string) ([]*entity.OrderItemAddition, error) {
	if ok, err := r.additionsTableExists(ctx); err != nil || !ok {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_item_id, name, quantity
		FROM order_item_additions WHERE order_item_id = $1 ORDER BY seq`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list additions: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItemAddition
	for rows.Next() {
		var a entity.OrderItemAddition
		if err := rows.Scan(&a.ID, &a.OrderItemID, &a.Name, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan addition: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// DeleteAdditions borra las adiciones de la línea.
func (r *OrderItemRepo) DeleteAdditions(ctx context.Context, itemID string) error {
	if ok, err := r.additionsTableExists(ctx); err != nil || !ok {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_item_additions WHERE order_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete additions: %w", err)
	}
	return nil
}

// additionsTableExists consulta el catálogo: una lectura sobre una tabla inexistente abortaría la transacción.
func (r *OrderItemRepo) additionsTableExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT to_regclass('order_item_additions') IS NOT NULL`).Scan(&exists); err != nil {
		return false, fmt.Errorf("check additions table: %w", err)
	}
	return exists, nil
}
