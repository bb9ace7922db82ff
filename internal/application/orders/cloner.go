package orders

import (
	"context"
	"fmt"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

// Cloner copia las líneas de un pedido de origen a un pedido derivado (COMPLETACION o REFERENTE).
type Cloner struct {
	ledger *Ledger
	recalc Recalculator
}

// NewCloner construye el clonador.
func NewCloner(ledger *Ledger) *Cloner {
	return &Cloner{ledger: ledger}
}

// Clone copia cada línea de sourceID (conservando su estado) con su empaque, medias,
// materiales y adiciones, y recalcula el total del destino una sola vez al final.
// Devuelve la cantidad de líneas copiadas.
func (c *Cloner) Clone(ctx context.Context, tx repository.Store, actor entity.Actor, sourceID string, target *entity.Order) (int, error) {
	items, err := tx.Items().ListByOrder(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("leer líneas de origen: %w", err)
	}
	for i, src := range items {
		d, err := c.draftFrom(ctx, tx, fmt.Sprintf("source.%s", ordering.ItemPath(i)), src)
		if err != nil {
			return 0, err
		}
		if err := WriteItem(ctx, tx, c.ledger, actor, target.ID, d); err != nil {
			return 0, err
		}
	}
	if err := c.recalc.Recalculate(ctx, tx, target.ID); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (c *Cloner) draftFrom(ctx context.Context, tx repository.Store, field string, src *entity.OrderItem) (*ItemDraft, error) {
	item := *src
	item.ID = ""
	item.OrderID = ""
	if src.TotalPrice != nil {
		tp := *src.TotalPrice
		item.TotalPrice = &tp
	}
	if err := ordering.ValidateItem(field, &item); err != nil {
		return nil, err
	}
	d := &ItemDraft{Item: &item}

	packaging, err := tx.Items().ListPackaging(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("leer empaque de origen: %w", err)
	}
	for i, p := range packaging {
		row := *p
		if err := ordering.ValidatePackaging(fmt.Sprintf("%s.packaging[%d]", field, i), &row); err != nil {
			return nil, err
		}
		d.Packaging = append(d.Packaging, &row)
	}
	socks, err := tx.Items().ListSocks(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("leer medias de origen: %w", err)
	}
	for i, s := range socks {
		row := *s
		if err := ordering.ValidateSock(fmt.Sprintf("%s.socks[%d]", field, i), &row); err != nil {
			return nil, err
		}
		d.Socks = append(d.Socks, &row)
	}
	materials, err := tx.Items().ListMaterials(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("leer materiales de origen: %w", err)
	}
	for i, m := range materials {
		row := *m
		if err := ordering.ValidateMaterial(fmt.Sprintf("%s.materials[%d]", field, i), &row); err != nil {
			return nil, err
		}
		d.Materials = append(d.Materials, &row)
	}
	additions, err := tx.Items().ListAdditions(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("leer adiciones de origen: %w", err)
	}
	for _, a := range additions {
		row := *a
		d.Additions = append(d.Additions, &row)
	}
	return d, nil
}
