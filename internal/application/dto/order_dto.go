package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagingInput fila de empaque en un payload.
type PackagingInput struct {
	Mode         string `json:"mode" validate:"required,oneof=AGRUPADO INDIVIDUAL"`
	Size         string `json:"size" validate:"required,max=20"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	PersonName   string `json:"person_name,omitempty" validate:"max=120"`
	PersonNumber string `json:"person_number,omitempty" validate:"max=10"`
}

// SockInput fila de medias en un payload.
type SockInput struct {
	Size        string `json:"size" validate:"required,max=20"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// MaterialInput fila de materiales en un payload.
type MaterialInput struct {
	InventoryItemID string          `json:"inventory_item_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Note            string          `json:"note,omitempty"`
}

// OrderItemInput línea de diseño al crear un pedido o agregar una línea.
// Las líneas nuevas siempre arrancan en PENDIENTE.
type OrderItemInput struct {
	ProductID        *string          `json:"product_id,omitempty"`
	Name             string           `json:"name" validate:"required,max=200"`
	Quantity         int              `json:"quantity" validate:"gt=0"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	TotalPrice       *decimal.Decimal `json:"total_price,omitempty"`
	RequiresRevision bool             `json:"requires_revision"`
	Fabric           string           `json:"fabric,omitempty"`
	Color            string           `json:"color,omitempty"`
	Process          string           `json:"process,omitempty"`
	Trims            string           `json:"trims,omitempty"`
	NeckType         string           `json:"neck_type,omitempty"`
	ImageURL         string           `json:"image_url,omitempty" validate:"omitempty,url"`
	Observations     string           `json:"observations,omitempty"`
	Packaging        []PackagingInput `json:"packaging,omitempty" validate:"dive"`
	Socks            []SockInput      `json:"socks,omitempty" validate:"dive"`
	Materials        []MaterialInput  `json:"materials,omitempty" validate:"dive"`
}

// CreateOrderRequest body para POST /api/orders.
// SourceOrderCode es obligatorio para COMPLETACION y REFERENTE.
type CreateOrderRequest struct {
	Name            string           `json:"name" validate:"required,max=200"`
	Kind            string           `json:"kind" validate:"omitempty,oneof=NUEVO COMPLETACION REFERENTE"`
	SourceOrderCode string           `json:"source_order_code,omitempty"`
	ClientID        string           `json:"client_id" validate:"required"`
	Type            string           `json:"type,omitempty" validate:"omitempty,oneof=NACIONAL INTERNACIONAL"`
	Discount        decimal.Decimal  `json:"discount"`
	ShippingFee     decimal.Decimal  `json:"shipping_fee"`
	Currency        string           `json:"currency,omitempty" validate:"omitempty,oneof=COP USD"`
	IvaEnabled      bool             `json:"iva_enabled"`
	Items           []OrderItemInput `json:"items,omitempty" validate:"dive"`
}

// UpdateOrderRequest body para PUT /api/orders/:id (solo los campos presentes cambian).
type UpdateOrderRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ClientID    *string          `json:"client_id,omitempty" validate:"omitempty,min=1"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	ShippingFee *decimal.Decimal `json:"shipping_fee,omitempty"`
	Currency    *string          `json:"currency,omitempty" validate:"omitempty,oneof=COP USD"`
	IvaEnabled  *bool            `json:"iva_enabled,omitempty"`
}

// ChangeStatusRequest body para los endpoints de cambio de estado.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderItemRequest body para PUT /api/orders/:id/items/:itemId.
// Las listas presentes (aunque vacías) reemplazan por completo las existentes.
type UpdateOrderItemRequest struct {
	ProductID        *string           `json:"product_id,omitempty"`
	Name             *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Quantity         *int              `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice        *decimal.Decimal  `json:"unit_price,omitempty"`
	TotalPrice       *decimal.Decimal  `json:"total_price,omitempty"`
	Status           *string           `json:"status,omitempty"`
	RequiresRevision *bool             `json:"requires_revision,omitempty"`
	IsActive         *bool             `json:"is_active,omitempty"`
	Fabric           *string           `json:"fabric,omitempty"`
	Color            *string           `json:"color,omitempty"`
	Process          *string           `json:"process,omitempty"`
	Trims            *string           `json:"trims,omitempty"`
	NeckType         *string           `json:"neck_type,omitempty"`
	ImageURL         *string           `json:"image_url,omitempty"`
	Observations     *string           `json:"observations,omitempty"`
	Packaging        *[]PackagingInput `json:"packaging,omitempty"`
	Socks            *[]SockInput      `json:"socks,omitempty"`
	Materials        *[]MaterialInput  `json:"materials,omitempty"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID            string              `json:"id"`
	OrderCode     string              `json:"order_code"`
	Name          string              `json:"name"`
	Kind          string              `json:"kind"`
	SourceOrderID *string             `json:"source_order_id,omitempty"`
	ClientID      string              `json:"client_id"`
	Type          string              `json:"type"`
	Status        string              `json:"status"`
	Discount      decimal.Decimal     `json:"discount"`
	ShippingFee   decimal.Decimal     `json:"shipping_fee"`
	Currency      string              `json:"currency"`
	IvaEnabled    bool                `json:"iva_enabled"`
	Total         decimal.Decimal     `json:"total"`
	CreatedBy     string              `json:"created_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Items         []OrderItemResponse `json:"items,omitempty"`
}

// OrderItemResponse línea con sus sub-registros. TotalPrice es el total efectivo;
// PriceOverride indica si proviene de un override.
type OrderItemResponse struct {
	ID               string             `json:"id"`
	OrderID          string             `json:"order_id"`
	ProductID        *string            `json:"product_id,omitempty"`
	Name             string             `json:"name"`
	Quantity         int                `json:"quantity"`
	UnitPrice        decimal.Decimal    `json:"unit_price"`
	TotalPrice       decimal.Decimal    `json:"total_price"`
	PriceOverride    bool               `json:"price_override"`
	Status           string             `json:"status"`
	RequiresRevision bool               `json:"requires_revision"`
	IsActive         bool               `json:"is_active"`
	IsAddition       bool               `json:"is_addition,omitempty"`
	Fabric           string             `json:"fabric,omitempty"`
	Color            string             `json:"color,omitempty"`
	Process          string             `json:"process,omitempty"`
	Trims            string             `json:"trims,omitempty"`
	NeckType         string             `json:"neck_type,omitempty"`
	ImageURL         string             `json:"image_url,omitempty"`
	Observations     string             `json:"observations,omitempty"`
	Evidence         string             `json:"evidence,omitempty"`
	Packaging        []PackagingInput   `json:"packaging"`
	Socks            []SockInput        `json:"socks"`
	Materials        []MaterialInput    `json:"materials"`
	Additions        []AdditionResponse `json:"additions,omitempty"`
}

// AdditionResponse adición persistida de una línea.
type AdditionResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderListResponse lista paginada de pedidos (sin líneas).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// StatusHistoryResponse fila del historial de estados.
type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}
