package orders

import (
	"context"
	"fmt"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// deleteItemCascade borra la línea y todo lo que le pertenece.
func deleteItemCascade(ctx context.Context, tx repository.Store, itemID string) error {
	items := tx.Items()
	if err := items.ReplacePackaging(ctx, itemID, nil); err != nil {
		return fmt.Errorf("borrar empaque: %w", err)
	}
	if err := items.ReplaceSocks(ctx, itemID, nil); err != nil {
		return fmt.Errorf("borrar medias: %w", err)
	}
	if err := items.ReplaceMaterials(ctx, itemID, nil); err != nil {
		return fmt.Errorf("borrar materiales: %w", err)
	}
	if err := items.DeleteAdditions(ctx, itemID); err != nil {
		return fmt.Errorf("borrar adiciones: %w", err)
	}
	if err := tx.History().DeleteByItem(ctx, itemID); err != nil {
		return fmt.Errorf("borrar historial de línea: %w", err)
	}
	if err := items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("borrar línea: %w", err)
	}
	return nil
}

// deleteOrderCascade borra líneas, historial y el pedido; la prefactura que lo
// referencie queda sin pedido para que una nueva conversión lo recree.
func deleteOrderCascade(ctx context.Context, tx repository.Store, orderID string) error {
	items, err := tx.Items().ListByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("leer líneas: %w", err)
	}
	for _, it := range items {
		if err := deleteItemCascade(ctx, tx, it.ID); err != nil {
			return err
		}
	}
	if err := tx.History().DeleteByOrder(ctx, orderID); err != nil {
		return fmt.Errorf("borrar historial de pedido: %w", err)
	}
	if err := tx.Prefacturas().UnlinkOrder(ctx, orderID); err != nil {
		return fmt.Errorf("desvincular prefactura: %w", err)
	}
	if err := tx.Orders().Delete(ctx, orderID); err != nil {
		return fmt.Errorf("borrar pedido: %w", err)
	}
	return nil
}
