package repository

import (
	"context"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// PrefacturaRepository persistencia de prefacturas.
type PrefacturaRepository interface {
	// Create inserta la prefactura. Código repetido => domain.ErrDuplicate;
	// cotización ya convertida => domain.ErrConflict.
	Create(ctx context.Context, p *entity.Prefactura) error
	GetByID(ctx context.Context, id string) (*entity.Prefactura, error)
	GetByQuotationID(ctx context.Context, quotationID string) (*entity.Prefactura, error)
	ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	LinkOrder(ctx context.Context, id string, orderID *string) error
	// UnlinkOrder limpia order_id de la prefactura que apunte al pedido.
	UnlinkOrder(ctx context.Context, orderID string) error
}

// QuotationRepository lectura de cotizaciones para la conversión.
type QuotationRepository interface {
	// GetByID devuelve la cotización con sus líneas y adiciones.
	GetByID(ctx context.Context, id string) (*entity.Quotation, error)
	// MarkReopened deja prefactura_approved=false e is_active=true.
	MarkReopened(ctx context.Context, id string) error
}
