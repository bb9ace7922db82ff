package ordering

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// IsKind informa si k es un tipo de pedido válido.
func IsKind(k string) bool {
	switch k {
	case entity.OrderKindNuevo, entity.OrderKindCompletacion, entity.OrderKindReferente:
		return true
	}
	return false
}

// IsDerivedKind COMPLETACION y REFERENTE se crean a partir de otro pedido.
func IsDerivedKind(k string) bool {
	return k == entity.OrderKindCompletacion || k == entity.OrderKindReferente
}

// ValidateDiscount exige un porcentaje en [0, 100].
func ValidateDiscount(field string, d decimal.Decimal) error {
	if d.LessThan(decimal.Zero) || d.GreaterThan(hundred) {
		return domain.Validation(field, "el descuento debe estar entre 0 y 100").With("value", d.String())
	}
	return nil
}

// ValidatePackaging valida una fila de empaque; field es la ruta para el mensaje (ej. items[0].packaging[2]).
func ValidatePackaging(field string, p *entity.Packaging) error {
	if p.Mode != entity.PackagingModeAgrupado && p.Mode != entity.PackagingModeIndividual {
		return domain.Validation(field+".mode", "modo de empaque inválido").With("value", p.Mode)
	}
	if strings.TrimSpace(p.Size) == "" {
		return domain.Validation(field+".size", "la talla es requerida")
	}
	if p.Quantity <= 0 {
		return domain.Validation(field+".quantity", "la cantidad debe ser positiva")
	}
	return nil
}

// ValidateSock valida una fila de medias.
func ValidateSock(field string, s *entity.Sock) error {
	if strings.TrimSpace(s.Size) == "" {
		return domain.Validation(field+".size", "la talla es requerida")
	}
	if s.Quantity <= 0 {
		return domain.Validation(field+".quantity", "la cantidad debe ser positiva")
	}
	return nil
}

// ValidateMaterial valida una fila de materiales.
func ValidateMaterial(field string, m *entity.Material) error {
	if strings.TrimSpace(m.InventoryItemID) == "" {
		return domain.Validation(field+".inventory_item_id", "el insumo es requerido")
	}
	if !m.Quantity.GreaterThan(decimal.Zero) {
		return domain.Validation(field+".quantity", "la cantidad debe ser positiva")
	}
	return nil
}

// ValidateItem valida los campos numéricos de una línea.
func ValidateItem(field string, it *entity.OrderItem) error {
	if it.Quantity <= 0 {
		return domain.Validation(field+".quantity", "la cantidad debe ser un entero positivo").With("value", it.Quantity)
	}
	if it.UnitPrice.LessThan(decimal.Zero) {
		return domain.Validation(field+".unit_price", "el precio unitario no puede ser negativo")
	}
	if it.TotalPrice != nil && it.TotalPrice.LessThan(decimal.Zero) {
		return domain.Validation(field+".total_price", "el total de la línea no puede ser negativo")
	}
	if it.Status != "" && !IsItemStatus(it.Status) {
		return domain.Validation(field+".status", "estado desconocido").With("status", it.Status)
	}
	return nil
}

// ItemPath ruta legible de una línea en un payload.
func ItemPath(i int) string {
	return fmt.Sprintf("items[%d]", i)
}
