package orders

import (
	"context"
	"fmt"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// LoadOrderView lee el pedido con sus líneas y sub-registros.
func LoadOrderView(ctx context.Context, tx repository.Store, orderID string) (*dto.OrderResponse, error) {
	order, err := tx.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("leer pedido: %w", err)
	}
	if order == nil {
		return nil, domain.NotFound("pedido", orderID)
	}
	out := ToOrderResponse(order)
	items, err := tx.Items().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("leer líneas: %w", err)
	}
	out.Items = make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		v, err := loadItemView(ctx, tx, it)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *v)
	}
	return out, nil
}

func loadItemView(ctx context.Context, tx repository.Store, it *entity.OrderItem) (*dto.OrderItemResponse, error) {
	v := toItemResponse(it)
	packaging, err := tx.Items().ListPackaging(ctx, it.ID)
	if err != nil {
		return nil, fmt.Errorf("leer empaque: %w", err)
	}
	for _, p := range packaging {
		v.Packaging = append(v.Packaging, dto.PackagingInput{
			Mode: p.Mode, Size: p.Size, Quantity: p.Quantity, PersonName: p.PersonName, PersonNumber: p.PersonNumber,
		})
	}
	socks, err := tx.Items().ListSocks(ctx, it.ID)
	if err != nil {
		return nil, fmt.Errorf("leer medias: %w", err)
	}
	for _, s := range socks {
		v.Socks = append(v.Socks, dto.SockInput{Size: s.Size, Quantity: s.Quantity, Description: s.Description, ImageURL: s.ImageURL})
	}
	materials, err := tx.Items().ListMaterials(ctx, it.ID)
	if err != nil {
		return nil, fmt.Errorf("leer materiales: %w", err)
	}
	for _, m := range materials {
		v.Materials = append(v.Materials, dto.MaterialInput{InventoryItemID: m.InventoryItemID, Quantity: m.Quantity, Note: m.Note})
	}
	additions, err := tx.Items().ListAdditions(ctx, it.ID)
	if err != nil {
		return nil, fmt.Errorf("leer adiciones: %w", err)
	}
	for _, a := range additions {
		v.Additions = append(v.Additions, dto.AdditionResponse{Name: a.Name, Quantity: a.Quantity})
	}
	return v, nil
}

// ToOrderResponse cabecera del pedido sin líneas.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:            o.ID,
		OrderCode:     o.OrderCode,
		Name:          o.Name,
		Kind:          o.Kind,
		SourceOrderID: o.SourceOrderID,
		ClientID:      o.ClientID,
		Type:          o.Type,
		Status:        o.Status,
		Discount:      o.Discount,
		ShippingFee:   o.ShippingFee,
		Currency:      o.Currency,
		IvaEnabled:    o.IvaEnabled,
		Total:         o.Total,
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toItemResponse(it *entity.OrderItem) *dto.OrderItemResponse {
	return &dto.OrderItemResponse{
		ID:               it.ID,
		OrderID:          it.OrderID,
		ProductID:        it.ProductID,
		Name:             it.Name,
		Quantity:         it.Quantity,
		UnitPrice:        it.UnitPrice,
		TotalPrice:       it.LineTotal(),
		PriceOverride:    it.TotalPrice != nil,
		Status:           it.Status,
		RequiresRevision: it.RequiresRevision,
		IsActive:         it.IsActive,
		IsAddition:       it.IsAddition,
		Fabric:           it.Fabric,
		Color:            it.Color,
		Process:          it.Process,
		Trims:            it.Trims,
		NeckType:         it.NeckType,
		ImageURL:         it.ImageURL,
		Observations:     it.Observations,
		Evidence:         it.Evidence,
		Packaging:        []dto.PackagingInput{},
		Socks:            []dto.SockInput{},
		Materials:        []dto.MaterialInput{},
	}
}

func toHistoryResponse(rows []*entity.StatusHistory) []dto.StatusHistoryResponse {
	out := make([]dto.StatusHistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, dto.StatusHistoryResponse{Status: h.Status, ChangedBy: h.ChangedBy, CreatedAt: h.CreatedAt})
	}
	return out
}
