package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

func TestChangeItemStatus_Permitido(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 1, "10")}})
	itemID := o.Items[0].ID

	out, err := f.uc.ChangeItemStatus(context.Background(), asesor, o.ID, itemID, entity.ItemStatusEnRevision)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusEnRevision, out.Status)

	hist := f.store.ItemHistory(itemID)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.ItemStatusEnRevision, hist[1].Status)
	assert.Equal(t, asesor.UserID, hist[1].ChangedBy)

	sent := f.notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, entity.EventItemStatusChanged, sent[1].Event)
	assert.Equal(t, entity.ItemStatusPendiente, sent[1].Meta["from"])
}

func TestChangeItemStatus_MismoEstadoEsNoOp(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 1, "10")}})
	itemID := o.Items[0].ID

	// El operario de empaque no tiene ninguna transición desde PENDIENTE; el no-op no consulta la tabla.
	out, err := f.uc.ChangeItemStatus(context.Background(), empaque, o.ID, itemID, entity.ItemStatusPendiente)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusPendiente, out.Status)
	assert.Len(t, f.store.ItemHistory(itemID), 1)
	assert.Len(t, f.notifier.Sent(), 1)
}

func TestChangeItemStatus_Rechazos(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 1, "10")}})
	itemID := o.Items[0].ID

	_, err := f.uc.ChangeItemStatus(context.Background(), admin, o.ID, itemID, "VOLANDO")
	rej := requireRejection(t, err, domain.KindValidation)
	assert.Equal(t, "status", rej.Field)

	_, err = f.uc.ChangeItemStatus(context.Background(), empaque, o.ID, itemID, entity.ItemStatusAprobado)
	rej = requireRejection(t, err, domain.KindForbidden)
	assert.Equal(t, entity.ItemStatusPendiente, rej.Details["from"])
	assert.Equal(t, entity.ItemStatusAprobado, rej.Details["to"])
	assert.Equal(t, entity.RoleOperarioEmpaque, rej.Details["role"])

	_, err = f.uc.ChangeItemStatus(context.Background(), admin, o.ID, "otra-linea", entity.ItemStatusAprobado)
	requireRejection(t, err, domain.KindNotFound)

	assert.Len(t, f.store.ItemHistory(itemID), 1)
	assert.Equal(t, entity.ItemStatusPendiente, f.store.Items(o.ID)[0].Status)
}

func TestChangeItemStatus_PedidoCompletacionRechaza(t *testing.T) {
	f := newFixture(t)
	src := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 1, "10")}})
	comp := f.create(t, dto.CreateOrderRequest{Kind: entity.OrderKindCompletacion, SourceOrderCode: src.OrderCode})
	itemID := comp.Items[0].ID

	_, err := f.uc.ChangeItemStatus(context.Background(), admin, comp.ID, itemID, entity.ItemStatusEnRevision)
	rej := requireRejection(t, err, domain.KindValidation)
	assert.Equal(t, "status", rej.Field)
	assert.Len(t, f.store.ItemHistory(itemID), 1)
}

func TestUpdateItem_CambioDeCantidadLimpiaOverride(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 10, "100")}})
	itemID := o.Items[0].ID
	assert.True(t, dec("1000").Equal(o.Total))

	out, err := f.uc.UpdateItem(context.Background(), asesor, o.ID, itemID, dto.UpdateOrderItemRequest{TotalPrice: ptr(dec("800"))})
	require.NoError(t, err)
	assert.True(t, dec("800").Equal(out.Total))
	assert.True(t, out.Items[0].PriceOverride)

	out, err = f.uc.UpdateItem(context.Background(), asesor, o.ID, itemID, dto.UpdateOrderItemRequest{Quantity: ptr(15)})
	require.NoError(t, err)
	assert.True(t, dec("1500").Equal(out.Total), "total %s", out.Total)
	assert.False(t, out.Items[0].PriceOverride)
}

func TestUpdateItem_ReemplazaSubRegistros(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{{
		Name: "Camiseta", Quantity: 3, UnitPrice: dec("10"),
		Packaging: []dto.PackagingInput{{Mode: entity.PackagingModeAgrupado, Size: "M", Quantity: 3}},
		Socks:     []dto.SockInput{{Size: "M", Quantity: 3}},
	}}})
	itemID := o.Items[0].ID

	out, err := f.uc.UpdateItem(context.Background(), asesor, o.ID, itemID, dto.UpdateOrderItemRequest{
		Packaging: &[]dto.PackagingInput{
			{Mode: entity.PackagingModeIndividual, Size: "S", Quantity: 1, PersonName: "Luis"},
			{Mode: entity.PackagingModeIndividual, Size: "L", Quantity: 2, PersonName: "Eva"},
		},
		Socks: &[]dto.SockInput{},
	})
	require.NoError(t, err)
	require.Len(t, out.Items[0].Packaging, 2)
	assert.Empty(t, out.Items[0].Socks)

	_, err = f.uc.UpdateItem(context.Background(), asesor, o.ID, itemID, dto.UpdateOrderItemRequest{
		Packaging: &[]dto.PackagingInput{{Mode: entity.PackagingModeIndividual, Size: "", Quantity: 1}},
	})
	rej := requireRejection(t, err, domain.KindValidation)
	assert.Equal(t, "item.packaging[0].size", rej.Field)
	assert.Len(t, f.store.Packaging(itemID), 2)
}

func TestUpdateItem_CompletacionSoloCantidadYEmpaque(t *testing.T) {
	f := newFixture(t)
	src := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 5, "20")}})
	comp := f.create(t, dto.CreateOrderRequest{Kind: entity.OrderKindCompletacion, SourceOrderCode: src.OrderCode})
	itemID := comp.Items[0].ID

	_, err := f.uc.UpdateItem(context.Background(), asesor, comp.ID, itemID, dto.UpdateOrderItemRequest{Name: ptr("Otro nombre")})
	rej := requireRejection(t, err, domain.KindValidation)
	assert.Equal(t, "name", rej.Field)

	_, err = f.uc.UpdateItem(context.Background(), asesor, comp.ID, itemID, dto.UpdateOrderItemRequest{Socks: &[]dto.SockInput{}})
	rej = requireRejection(t, err, domain.KindValidation)
	assert.Equal(t, "socks", rej.Field)

	out, err := f.uc.UpdateItem(context.Background(), asesor, comp.ID, itemID, dto.UpdateOrderItemRequest{
		Name:     ptr("Camiseta"),
		Quantity: ptr(2),
		Packaging: &[]dto.PackagingInput{
			{Mode: entity.PackagingModeAgrupado, Size: "XL", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Items[0].Quantity)
	assert.True(t, dec("40").Equal(out.Total))
}

func TestAddAndDeleteItem_RecalculaTotal(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Discount: dec("10"), Items: []dto.OrderItemInput{item("Camiseta", 1, "100")}})

	out, err := f.uc.AddItem(context.Background(), asesor, o.ID, item("Gorra", 2, "50"))
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.True(t, dec("180").Equal(out.Total), "total %s", out.Total)

	added := out.Items[1].ID
	assert.Len(t, f.store.ItemHistory(added), 1)

	out, err = f.uc.DeleteItem(context.Background(), asesor, o.ID, added)
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.True(t, dec("90").Equal(out.Total))
	assert.Empty(t, f.store.ItemHistory(added))
}

func TestItemHistory_Cronologico(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 1, "10")}})
	itemID := o.Items[0].ID
	for _, s := range []string{entity.ItemStatusEnRevision, entity.ItemStatusAprobado} {
		_, err := f.uc.ChangeItemStatus(context.Background(), admin, o.ID, itemID, s)
		require.NoError(t, err)
	}

	hist, err := f.uc.ItemHistory(context.Background(), o.ID, itemID)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, []string{entity.ItemStatusPendiente, entity.ItemStatusEnRevision, entity.ItemStatusAprobado},
		[]string{hist[0].Status, hist[1].Status, hist[2].Status})
}

func TestAddItem_CompletacionRechaza(t *testing.T) {
	f := newFixture(t)
	src := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 10, "100")}})
	comp := f.create(t, dto.CreateOrderRequest{Kind: entity.OrderKindCompletacion, SourceOrderCode: src.OrderCode})

	_, err := f.uc.AddItem(context.Background(), asesor, comp.ID, item("Gorra", 2, "100"))
	rej := requireRejection(t, err, domain.KindValidation)
	assert.Equal(t, "items", rej.Field)
	assert.Equal(t, comp.OrderCode, rej.Details["order_code"])

	again, err := f.uc.Get(context.Background(), comp.ID)
	require.NoError(t, err)
	assert.Len(t, again.Items, 1)
	assert.True(t, comp.Total.Equal(again.Total))

	out, err := f.uc.AddItem(context.Background(), asesor, src.ID, item("Gorra", 2, "100"))
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}
