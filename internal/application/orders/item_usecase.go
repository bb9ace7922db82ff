package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

func (uc *OrderUseCase) loadOwnedItem(ctx context.Context, tx repository.Store, orderID, itemID string) (*entity.Order, *entity.OrderItem, error) {
	order, err := tx.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("leer pedido: %w", err)
	}
	if order == nil {
		return nil, nil, domain.NotFound("pedido", orderID)
	}
	item, err := tx.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("leer línea: %w", err)
	}
	if item == nil || item.OrderID != order.ID {
		return nil, nil, domain.NotFound("linea", itemID)
	}
	return order, item, nil
}

// AddItem agrega una línea al pedido y recalcula el total. Los pedidos COMPLETACION no
// admiten diseños nuevos.
func (uc *OrderUseCase) AddItem(ctx context.Context, actor entity.Actor, orderID string, in dto.OrderItemInput) (*dto.OrderResponse, error) {
	d, err := draftFromInput("item", in)
	if err != nil {
		return nil, err
	}
	var out *dto.OrderResponse
	err = uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("leer pedido: %w", err)
		}
		if order == nil {
			return domain.NotFound("pedido", orderID)
		}
		if order.Kind == entity.OrderKindCompletacion {
			return domain.Validation("items", "los pedidos de completación no admiten líneas nuevas").
				With("order_code", order.OrderCode)
		}
		if err := WriteItem(ctx, tx, uc.ledger, actor, order.ID, d); err != nil {
			return err
		}
		if err := uc.recalc.Recalculate(ctx, tx, order.ID); err != nil {
			return err
		}
		out, err = LoadOrderView(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type itemPatch struct {
	packaging *[]*entity.Packaging
	socks     *[]*entity.Sock
	materials *[]*entity.Material
}

func validateItemPatch(in dto.UpdateOrderItemRequest) (*itemPatch, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Validation("name", "el nombre no puede quedar vacío")
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.Validation("quantity", "la cantidad debe ser un entero positivo").With("value", *in.Quantity)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.Validation("unit_price", "el precio unitario no puede ser negativo")
	}
	if in.TotalPrice != nil && in.TotalPrice.IsNegative() {
		return nil, domain.Validation("total_price", "el total de la línea no puede ser negativo")
	}
	if in.Status != nil && !ordering.IsItemStatus(*in.Status) {
		return nil, domain.Validation("status", "estado de línea desconocido").With("status", *in.Status)
	}
	p := &itemPatch{}
	if in.Packaging != nil {
		rows, err := packagingFromInput("item", *in.Packaging)
		if err != nil {
			return nil, err
		}
		p.packaging = &rows
	}
	if in.Socks != nil {
		rows, err := socksFromInput("item", *in.Socks)
		if err != nil {
			return nil, err
		}
		p.socks = &rows
	}
	if in.Materials != nil {
		rows, err := materialsFromInput("item", *in.Materials)
		if err != nil {
			return nil, err
		}
		p.materials = &rows
	}
	return p, nil
}

func changedString(next *string, current string) bool {
	return next != nil && *next != current
}

// completionViolation devuelve el primer campo que un pedido COMPLETACION no puede cambiar.
func completionViolation(item *entity.OrderItem, in dto.UpdateOrderItemRequest) string {
	switch {
	case in.ProductID != nil && (item.ProductID == nil || *in.ProductID != *item.ProductID):
		return "product_id"
	case changedString(in.Name, item.Name):
		return "name"
	case in.UnitPrice != nil && !in.UnitPrice.Equal(item.UnitPrice):
		return "unit_price"
	case in.TotalPrice != nil:
		return "total_price"
	case in.RequiresRevision != nil && *in.RequiresRevision != item.RequiresRevision:
		return "requires_revision"
	case in.IsActive != nil && *in.IsActive != item.IsActive:
		return "is_active"
	case changedString(in.Fabric, item.Fabric):
		return "fabric"
	case changedString(in.Color, item.Color):
		return "color"
	case changedString(in.Process, item.Process):
		return "process"
	case changedString(in.Trims, item.Trims):
		return "trims"
	case changedString(in.NeckType, item.NeckType):
		return "neck_type"
	case changedString(in.ImageURL, item.ImageURL):
		return "image_url"
	case changedString(in.Observations, item.Observations):
		return "observations"
	case in.Socks != nil:
		return "socks"
	case in.Materials != nil:
		return "materials"
	}
	return ""
}

func applyItemPatch(item *entity.OrderItem, in dto.UpdateOrderItemRequest) {
	repriced := false
	if in.ProductID != nil {
		item.ProductID = in.ProductID
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Quantity != nil && *in.Quantity != item.Quantity {
		item.Quantity = *in.Quantity
		repriced = true
	}
	if in.UnitPrice != nil && !in.UnitPrice.Equal(item.UnitPrice) {
		item.UnitPrice = *in.UnitPrice
		repriced = true
	}
	switch {
	case in.TotalPrice != nil:
		tp := *in.TotalPrice
		item.TotalPrice = &tp
	case repriced:
		// Un override viejo no sobrevive a un cambio de cantidad o precio.
		item.TotalPrice = nil
	}
	if in.RequiresRevision != nil {
		item.RequiresRevision = *in.RequiresRevision
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&item.Fabric, in.Fabric)
	set(&item.Color, in.Color)
	set(&item.Process, in.Process)
	set(&item.Trims, in.Trims)
	set(&item.NeckType, in.NeckType)
	set(&item.ImageURL, in.ImageURL)
	set(&item.Observations, in.Observations)
}

// UpdateItem modifica una línea. En pedidos COMPLETACION solo cambian cantidad y empaque.
// Si viene Status, el cambio pasa por la máquina de estados.
func (uc *OrderUseCase) UpdateItem(ctx context.Context, actor entity.Actor, orderID, itemID string, in dto.UpdateOrderItemRequest) (*dto.OrderResponse, error) {
	patch, err := validateItemPatch(in)
	if err != nil {
		return nil, err
	}
	var out *dto.OrderResponse
	var box Outbox
	err = uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, item, err := uc.loadOwnedItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if order.Kind == entity.OrderKindCompletacion {
			if field := completionViolation(item, in); field != "" {
				return domain.Validation(field, "en pedidos de completación solo se puede cambiar cantidad y empaque").
					With("order_code", order.OrderCode)
			}
		}
		if in.Status != nil {
			from := item.Status
			changed, err := uc.machine.ChangeItemStatus(ctx, tx, actor, order, item, *in.Status)
			if err != nil {
				return err
			}
			if changed {
				box.Add(itemStatusNotification(order, item, from))
			}
		}

		applyItemPatch(item, in)
		if err := ordering.ValidateItem("item", item); err != nil {
			return err
		}
		item.UpdatedAt = uc.now().UTC()
		if err := tx.Items().Update(ctx, item); err != nil {
			return fmt.Errorf("actualizar línea: %w", err)
		}
		if err := replaceChildren(ctx, tx, item.ID, patch.packaging, patch.socks, patch.materials); err != nil {
			return err
		}
		if err := uc.recalc.Recalculate(ctx, tx, order.ID); err != nil {
			return err
		}
		out, err = LoadOrderView(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	box.Flush(ctx, uc.notifier, uc.log)
	return out, nil
}

// ChangeItemStatus cambia solo el estado de una línea.
func (uc *OrderUseCase) ChangeItemStatus(ctx context.Context, actor entity.Actor, orderID, itemID, next string) (*dto.OrderItemResponse, error) {
	var out *dto.OrderItemResponse
	var box Outbox
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, item, err := uc.loadOwnedItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		from := item.Status
		changed, err := uc.machine.ChangeItemStatus(ctx, tx, actor, order, item, next)
		if err != nil {
			return err
		}
		if changed {
			box.Add(itemStatusNotification(order, item, from))
		}
		out, err = loadItemView(ctx, tx, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	if box.Len() > 0 {
		uc.log.Info().Str("item_id", itemID).Str("status", next).Str("role", actor.Role).Msg("estado de línea actualizado")
	}
	box.Flush(ctx, uc.notifier, uc.log)
	return out, nil
}

// DeleteItem borra la línea con sus sub-registros e historial y recalcula el total.
func (uc *OrderUseCase) DeleteItem(ctx context.Context, actor entity.Actor, orderID, itemID string) (*dto.OrderResponse, error) {
	var out *dto.OrderResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		order, item, err := uc.loadOwnedItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if err := deleteItemCascade(ctx, tx, item.ID); err != nil {
			return err
		}
		if err := uc.recalc.Recalculate(ctx, tx, order.ID); err != nil {
			return err
		}
		out, err = LoadOrderView(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", itemID).Str("user_id", actor.UserID).Msg("línea eliminada")
	return out, nil
}

// ItemHistory historial de estados de una línea.
func (uc *OrderUseCase) ItemHistory(ctx context.Context, orderID, itemID string) ([]dto.StatusHistoryResponse, error) {
	var out []dto.StatusHistoryResponse
	err := uc.txRunner.RunInTx(ctx, func(tx repository.Store) error {
		if _, _, err := uc.loadOwnedItem(ctx, tx, orderID, itemID); err != nil {
			return err
		}
		rows, err := tx.History().ListByItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("leer historial: %w", err)
		}
		out = toHistoryResponse(rows)
		return nil
	})
	return out, err
}

func itemStatusNotification(order *entity.Order, item *entity.OrderItem, from string) entity.Notification {
	return entity.Notification{
		Event:      entity.EventItemStatusChanged,
		Permission: permissionDesignStatus,
		Title:      "Estado de diseño",
		Message:    fmt.Sprintf("%s (%s) pasó de %s a %s", item.Name, order.OrderCode, from, item.Status),
		Href:       fmt.Sprintf("/orders/%s/items/%s", order.ID, item.ID),
		Meta: map[string]string{
			"order_code": order.OrderCode,
			"item_id":    item.ID,
			"from":       from,
			"to":         item.Status,
		},
	}
}
