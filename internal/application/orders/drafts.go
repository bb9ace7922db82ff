package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// ItemDraft línea lista para insertar junto con sus sub-registros.
type ItemDraft struct {
	Item      *entity.OrderItem
	Packaging []*entity.Packaging
	Socks     []*entity.Sock
	Materials []*entity.Material
	Additions []*entity.OrderItemAddition
}

func draftFromInput(field string, in dto.OrderItemInput) (*ItemDraft, error) {
	item := &entity.OrderItem{
		ProductID:        in.ProductID,
		Name:             in.Name,
		Quantity:         in.Quantity,
		UnitPrice:        in.UnitPrice,
		TotalPrice:       in.TotalPrice,
		Status:           entity.ItemStatusPendiente,
		RequiresRevision: in.RequiresRevision,
		IsActive:         true,
		Fabric:           in.Fabric,
		Color:            in.Color,
		Process:          in.Process,
		Trims:            in.Trims,
		NeckType:         in.NeckType,
		ImageURL:         in.ImageURL,
		Observations:     in.Observations,
	}
	if err := ordering.ValidateItem(field, item); err != nil {
		return nil, err
	}
	packaging, err := packagingFromInput(field, in.Packaging)
	if err != nil {
		return nil, err
	}
	socks, err := socksFromInput(field, in.Socks)
	if err != nil {
		return nil, err
	}
	materials, err := materialsFromInput(field, in.Materials)
	if err != nil {
		return nil, err
	}
	return &ItemDraft{Item: item, Packaging: packaging, Socks: socks, Materials: materials}, nil
}

func packagingFromInput(field string, in []dto.PackagingInput) ([]*entity.Packaging, error) {
	out := make([]*entity.Packaging, 0, len(in))
	for i, p := range in {
		row := &entity.Packaging{
			Mode:         p.Mode,
			Size:         p.Size,
			Quantity:     p.Quantity,
			PersonName:   p.PersonName,
			PersonNumber: p.PersonNumber,
		}
		if err := ordering.ValidatePackaging(fmt.Sprintf("%s.packaging[%d]", field, i), row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func socksFromInput(field string, in []dto.SockInput) ([]*entity.Sock, error) {
	out := make([]*entity.Sock, 0, len(in))
	for i, s := range in {
		row := &entity.Sock{Size: s.Size, Quantity: s.Quantity, Description: s.Description, ImageURL: s.ImageURL}
		if err := ordering.ValidateSock(fmt.Sprintf("%s.socks[%d]", field, i), row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func materialsFromInput(field string, in []dto.MaterialInput) ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(in))
	for i, m := range in {
		row := &entity.Material{InventoryItemID: m.InventoryItemID, Quantity: m.Quantity, Note: m.Note}
		if err := ordering.ValidateMaterial(fmt.Sprintf("%s.materials[%d]", field, i), row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteItem inserta la línea de d en orderID, su fila inicial de historial y sus sub-registros.
func WriteItem(ctx context.Context, tx repository.Store, ledger *Ledger, actor entity.Actor, orderID string, d *ItemDraft) error {
	it := d.Item
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	it.OrderID = orderID
	if it.Status == "" {
		it.Status = entity.ItemStatusPendiente
	}
	if err := tx.Items().Create(ctx, it); err != nil {
		return fmt.Errorf("crear línea: %w", err)
	}
	if err := ledger.RecordItem(ctx, tx, it.ID, it.Status, actor); err != nil {
		return fmt.Errorf("historial de línea: %w", err)
	}
	if err := replaceChildren(ctx, tx, it.ID, &d.Packaging, &d.Socks, &d.Materials); err != nil {
		return err
	}
	for _, a := range d.Additions {
		a.ID = uuid.New().String()
		a.OrderItemID = it.ID
		if err := tx.Items().CreateAddition(ctx, a); err != nil {
			return fmt.Errorf("crear adición: %w", err)
		}
	}
	return nil
}

// replaceChildren reemplaza las listas no nulas; una lista nula se deja intacta.
func replaceChildren(ctx context.Context, tx repository.Store, itemID string, packaging *[]*entity.Packaging, socks *[]*entity.Sock, materials *[]*entity.Material) error {
	if packaging != nil {
		for _, p := range *packaging {
			p.ID = uuid.New().String()
			p.OrderItemID = itemID
		}
		if err := tx.Items().ReplacePackaging(ctx, itemID, *packaging); err != nil {
			return fmt.Errorf("reemplazar empaque: %w", err)
		}
	}
	if socks != nil {
		for _, s := range *socks {
			s.ID = uuid.New().String()
			s.OrderItemID = itemID
		}
		if err := tx.Items().ReplaceSocks(ctx, itemID, *socks); err != nil {
			return fmt.Errorf("reemplazar medias: %w", err)
		}
	}
	if materials != nil {
		for _, m := range *materials {
			m.ID = uuid.New().String()
			m.OrderItemID = itemID
		}
		if err := tx.Items().ReplaceMaterials(ctx, itemID, *materials); err != nil {
			return fmt.Errorf("reemplazar materiales: %w", err)
		}
	}
	return nil
}
