package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de empaque.
const (
	PackagingModeAgrupado   = "AGRUPADO"
	PackagingModeIndividual = "INDIVIDUAL"
)

// OrderItem es una línea de diseño del pedido. Es dueña de su empaque, medias,
// materiales y adiciones: borrar o reemplazar la línea los elimina.
type OrderItem struct {
	ID               string
	OrderID          string
	ProductID        *string
	Name             string
	Quantity         int
	UnitPrice        decimal.Decimal
	TotalPrice       *decimal.Decimal // override opcional del total de la línea
	Status           string
	RequiresRevision bool
	IsActive         bool
	IsAddition       bool // línea sintética generada a partir de una adición de cotización
	Fabric           string
	Color            string
	Process          string
	Trims            string
	NeckType         string
	ImageURL         string
	Observations     string
	Evidence         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineTotal devuelve el total efectivo: el override si existe, si no precio × cantidad.
func (i *OrderItem) LineTotal() decimal.Decimal {
	if i.TotalPrice != nil {
		return *i.TotalPrice
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Packaging distribución de tallas/personas para el empaque de una línea.
type Packaging struct {
	ID           string
	OrderItemID  string
	Mode         string
	Size         string
	Quantity     int
	PersonName   string
	PersonNumber string
}

// Sock medias asociadas a la línea.
type Sock struct {
	ID          string
	OrderItemID string
	Size        string
	Quantity    int
	Description string
	ImageURL    string
}

// Material insumo de inventario consumido por la línea.
type Material struct {
	ID              string
	OrderItemID     string
	InventoryItemID string
	Quantity        decimal.Decimal
	Note            string
}

// OrderItemAddition adición (bordado, estampado extra, etc.) heredada de la cotización.
type OrderItemAddition struct {
	ID          string
	OrderItemID string
	Name        string
	Quantity    int
}

// Estados de la línea de diseño (ingreso, revisión, producción, empaque, despacho y terminales).
const (
	ItemStatusPendiente           = "PENDIENTE"
	ItemStatusEnRevision          = "EN_REVISION"
	ItemStatusAprobado            = "APROBADO"
	ItemStatusPendienteProduccion = "PENDIENTE_PRODUCCION"
	ItemStatusEnMontaje           = "EN_MONTAJE"
	ItemStatusEnPlotter           = "EN_PLOTTER"
	ItemStatusEnSublimacion       = "EN_SUBLIMACION"
	ItemStatusEnCorte             = "EN_CORTE"
	ItemStatusEnConfeccion        = "EN_CONFECCION"
	ItemStatusConfeccionado       = "CONFECCIONADO"
	ItemStatusEnRevisionCalidad   = "EN_REVISION_CALIDAD"
	ItemStatusEnEmpaque           = "EN_EMPAQUE"
	ItemStatusEmpacado            = "EMPACADO"
	ItemStatusListoDespacho       = "LISTO_DESPACHO"
	ItemStatusEnDespacho          = "EN_DESPACHO"
	ItemStatusEnviado             = "ENVIADO"
	ItemStatusEntregado           = "ENTREGADO"
	ItemStatusEnEspera            = "EN_ESPERA"
	ItemStatusCompletado          = "COMPLETADO"
	ItemStatusCancelado           = "CANCELADO"
)
