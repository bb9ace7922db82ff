package orders

import (
	"context"
	"fmt"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// Recalculator recalcula y persiste el total del pedido a partir de sus líneas.
// Se ejecuta en la misma transacción de cada mutación que afecta líneas o descuento.
type Recalculator struct{}

// Recalculate lee las líneas de orderID, calcula el total con el descuento del pedido y lo guarda.
func (Recalculator) Recalculate(ctx context.Context, tx repository.Store, orderID string) error {
	order, err := tx.Orders().GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("leer pedido: %w", err)
	}
	if order == nil {
		return domain.NotFound("pedido", orderID)
	}
	items, err := tx.Items().ListByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("leer líneas: %w", err)
	}
	total := ordering.ComputeTotal(items, order.Discount)
	if err := tx.Orders().UpdateTotal(ctx, orderID, total); err != nil {
		return fmt.Errorf("guardar total: %w", err)
	}
	return nil
}
