package ordering

import (
	"github.com/shopspring/decimal"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ClampDiscount limita el porcentaje de descuento a [0, 100].
func ClampDiscount(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}

// Subtotal suma el total efectivo de cada línea.
func Subtotal(items []*entity.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// ComputeTotal total = subtotal × (1 − descuento/100). El flete no forma parte del total persistido.
func ComputeTotal(items []*entity.OrderItem, discount decimal.Decimal) decimal.Decimal {
	return ApplyDiscount(Subtotal(items), discount)
}

// ApplyDiscount aplica un porcentaje (acotado a [0,100]) sobre un monto.
func ApplyDiscount(amount, discount decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred.Sub(ClampDiscount(discount))).Div(hundred)
}

// DiscountedLineTotal precio × cantidad × (1 − descuento/100) para líneas de cotización.
func DiscountedLineTotal(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	return ApplyDiscount(unitPrice.Mul(decimal.NewFromInt(int64(quantity))), discount)
}
