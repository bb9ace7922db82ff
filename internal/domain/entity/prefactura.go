package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de prefactura.
const (
	PrefacturaStatusPendienteContabilidad = "PENDIENTE_CONTABILIDAD"
	PrefacturaStatusAprobada              = "APROBADA"
	PrefacturaStatusAnulada               = "ANULADA"
)

// Prefactura punto de control contable generado desde una cotización.
// A lo sumo una por cotización; los montos son una foto de la cotización al convertir.
type Prefactura struct {
	ID             string
	PrefacturaCode string
	QuotationID    string
	OrderID        *string
	Status         string
	TotalProducts  decimal.Decimal
	Subtotal       decimal.Decimal
	Total          decimal.Decimal
	ApprovedAt     *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
