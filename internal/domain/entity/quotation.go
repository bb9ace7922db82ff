package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quotation cotización comercial; entrada de solo lectura para la conversión.
type Quotation struct {
	ID                 string
	QuotationCode      string
	ClientID           string
	Currency           string
	ShippingFee        decimal.Decimal
	IvaEnabled         bool
	TotalProducts      decimal.Decimal
	Subtotal           decimal.Decimal
	Total              decimal.Decimal
	PrefacturaApproved bool
	IsActive           bool
	Items              []QuotationItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// QuotationItem línea de cotización. Discount es porcentaje 0-100 sobre la línea.
type QuotationItem struct {
	ID          string
	QuotationID string
	ProductID   *string
	Name        string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Fabric      string
	Color       string
	Process     string
	ImageURL    string
	Notes       string
	Additions   []QuotationItemAddition
}

// QuotationItemAddition adición cotizada sobre una línea.
type QuotationItemAddition struct {
	ID              string
	QuotationItemID string
	Name            string
	Quantity        int
}
