package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de pedido.
const (
	OrderKindNuevo        = "NUEVO"        // pedido independiente
	OrderKindCompletacion = "COMPLETACION" // complemento de cantidades/empaque de un pedido previo
	OrderKindReferente    = "REFERENTE"    // pedido nuevo que reutiliza diseños de otro
)

// Tipo monetario del pedido: define la familia de código (VN-/VI-).
const (
	OrderTypeNacional      = "NACIONAL"
	OrderTypeInternacional = "INTERNACIONAL"
)

// Estados del pedido.
const (
	OrderStatusPendiente         = "PENDIENTE"
	OrderStatusAprobacionInicial = "APROBACION_INICIAL"
	OrderStatusProduccion        = "PRODUCCION"
	OrderStatusAtrasado          = "ATRASADO"
	OrderStatusFinalizado        = "FINALIZADO"
	OrderStatusEntregado         = "ENTREGADO"
	OrderStatusCancelado         = "CANCELADO"
)

// Monedas soportadas.
const (
	CurrencyCOP = "COP"
	CurrencyUSD = "USD"
)

// Order representa un pedido de producción.
// Total es derivado: siempre igual a la suma de las líneas con el descuento aplicado (sin flete).
type Order struct {
	ID            string
	OrderCode     string
	Name          string
	Kind          string
	SourceOrderID *string // referencia débil al pedido de origen (COMPLETACION/REFERENTE)
	ClientID      string
	Type          string
	Status        string
	Discount      decimal.Decimal // porcentaje 0-100
	ShippingFee   decimal.Decimal
	Currency      string
	IvaEnabled    bool
	Total         decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
