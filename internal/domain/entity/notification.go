package entity

import "time"

// Eventos emitidos por los casos de uso de pedidos.
const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventItemStatusChanged  = "ITEM_STATUS_CHANGED"
	EventQuotationConverted = "QUOTATION_CONVERTED"
	EventClientUnderReview  = "CLIENT_UNDER_REVIEW"
)

// Notification aviso dirigido a los usuarios que tienen Permission.
type Notification struct {
	Event      string            `json:"event"`
	Permission string            `json:"permission"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Href       string            `json:"href,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
