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

var _ repository.PrefacturaRepository = (*PrefacturaRepo)(nil)

// Índice único de prefacturas por cotización (ver migraciones).
const prefacturaQuotationConstraint = "prefacturas_quotation_id_key"

// PrefacturaRepo implementación de PrefacturaRepository.
type PrefacturaRepo struct {
	q Querier
}

// NewPrefacturaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrefacturaRepository(q Querier) *PrefacturaRepo {
	return &PrefacturaRepo{q: q}
}

const prefacturaColumns = `id, prefactura_code, quotation_id, order_id, status, total_products, subtotal, total,
	approved_at, created_by, created_at, updated_at`

func scanPrefactura(row pgx.Row) (*entity.Prefactura, error) {
	var p entity.Prefactura
	err := row.Scan(&p.ID, &p.PrefacturaCode, &p.QuotationID, &p.OrderID, &p.Status, &p.TotalProducts, &p.Subtotal, &p.Total,
		&p.ApprovedAt, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta la prefactura. Distingue código repetido de cotización ya convertida.
func (r *PrefacturaRepo) Create(ctx context.Context, p *entity.Prefactura) error {
	query := `
		INSERT INTO prefacturas (` + prefacturaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, p.ID, p.PrefacturaCode, p.QuotationID, p.OrderID, p.Status, p.TotalProducts, p.Subtotal, p.Total,
		p.ApprovedAt, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == prefacturaQuotationConstraint {
				return fmt.Errorf("quotation %s: %w", p.QuotationID, domain.ErrConflict)
			}
			return fmt.Errorf("prefactura_code %s: %w", p.PrefacturaCode, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert prefactura: %w", err)
	}
	return nil
}

// GetByID obtiene una prefactura por ID.
func (r *PrefacturaRepo) GetByID(ctx context.Context, id string) (*entity.Prefactura, error) {
	return r.getOne(ctx, `SELECT `+prefacturaColumns+` FROM prefacturas WHERE id = $1`, id)
}

// GetByQuotationID obtiene la prefactura de una cotización.
func (r *PrefacturaRepo) GetByQuotationID(ctx context.Context, quotationID string) (*entity.Prefactura, error) {
	return r.getOne(ctx, `SELECT `+prefacturaColumns+` FROM prefacturas WHERE quotation_id = $1`, quotationID)
}

func (r *PrefacturaRepo) getOne(ctx context.Context, query, arg string) (*entity.Prefactura, error) {
	p, err := scanPrefactura(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prefactura: %w", err)
	}
	return p, nil
}

// ListCodesByPrefix códigos de prefactura que empiezan por prefix.
func (r *PrefacturaRepo) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.q, `SELECT prefactura_code FROM prefacturas WHERE prefactura_code ILIKE $1 || '%'`, prefix)
}

// LinkOrder apunta la prefactura al pedido (nil la desvincula).
func (r *PrefacturaRepo) LinkOrder(ctx context.Context, id string, orderID *string) error {
	tag, err := r.q.Exec(ctx, `UPDATE prefacturas SET order_id = $2, updated_at = now() WHERE id = $1`, id, orderID)
	if err != nil {
		return fmt.Errorf("link prefactura: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UnlinkOrder limpia order_id en la prefactura que apunte a orderID.
func (r *PrefacturaRepo) UnlinkOrder(ctx context.Context, orderID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE prefacturas SET order_id = NULL, updated_at = now() WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("unlink prefactura: %w", err)
	}
	return nil
}
