package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConvertQuotationRequest body opcional para POST /api/quotations/:id/convert.
// OrderName renombra el pedido (también en la ruta de reutilización).
type ConvertQuotationRequest struct {
	OrderName string `json:"order_name,omitempty" validate:"omitempty,max=200"`
}

// PrefacturaResponse prefactura en respuestas.
type PrefacturaResponse struct {
	ID             string          `json:"id"`
	PrefacturaCode string          `json:"prefactura_code"`
	QuotationID    string          `json:"quotation_id"`
	OrderID        *string         `json:"order_id,omitempty"`
	Status         string          `json:"status"`
	TotalProducts  decimal.Decimal `json:"total_products"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
}

// ConversionResponse par prefactura/pedido. Reused indica que la cotización ya estaba convertida.
type ConversionResponse struct {
	Prefactura PrefacturaResponse `json:"prefactura"`
	Order      OrderResponse      `json:"order"`
	Reused     bool               `json:"reused"`
}
