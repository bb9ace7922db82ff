package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

func TestCreate_PedidoNuevoNacional(t *testing.T) {
	f := newFixture(t)
	out := f.create(t, dto.CreateOrderRequest{
		Discount: dec("10"),
		Items: []dto.OrderItemInput{
			item("Camiseta local", 10, "100"),
			item("Pantaloneta", 2, "50"),
		},
	})

	assert.Equal(t, "VN-000001", out.OrderCode)
	assert.Equal(t, entity.OrderTypeNacional, out.Type)
	assert.Equal(t, entity.OrderKindNuevo, out.Kind)
	assert.Equal(t, entity.OrderStatusPendiente, out.Status)
	assert.True(t, dec("990").Equal(out.Total), "total %s", out.Total)
	require.Len(t, out.Items, 2)

	hist := f.store.OrderHistory(out.ID)
	require.Len(t, hist, 1)
	assert.Equal(t, entity.OrderStatusPendiente, hist[0].Status)
	assert.Equal(t, asesor.UserID, hist[0].ChangedBy)
	for _, it := range out.Items {
		assert.Equal(t, entity.ItemStatusPendiente, it.Status)
		assert.Len(t, f.store.ItemHistory(it.ID), 1)
	}

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, entity.EventOrderCreated, sent[0].Event)
}

func TestCreate_CodigosSecuencialesPorFamilia(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, dto.CreateOrderRequest{})
	b := f.create(t, dto.CreateOrderRequest{})
	usd := f.create(t, dto.CreateOrderRequest{Currency: entity.CurrencyUSD})

	assert.Equal(t, "VN-000001", a.OrderCode)
	assert.Equal(t, "VN-000002", b.OrderCode)
	assert.Equal(t, "VI-0001", usd.OrderCode)
	assert.Equal(t, entity.OrderTypeInternacional, usd.Type)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), asesor, dto.CreateOrderRequest{
		Name:     "Sin cliente",
		ClientID: "no-existe",
		Items:    []dto.OrderItemInput{item("Camiseta", 1, "10")},
	})
	requireRejection(t, err, domain.KindNotFound)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Empty(t, f.store.Orders())
}

func TestCreate_ValidacionAntesDeEscribir(t *testing.T) {
	cases := []struct {
		name  string
		in    dto.CreateOrderRequest
		field string
	}{
		{"descuento fuera de rango", dto.CreateOrderRequest{Discount: dec("150")}, "discount"},
		{"flete negativo", dto.CreateOrderRequest{ShippingFee: dec("-1")}, "shipping_fee"},
		{"cantidad cero", dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("A", 1, "1"), item("B", 0, "1")}}, "items[1].quantity"},
		{"precio negativo", dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("A", 1, "-5")}}, "items[0].unit_price"},
		{"modo de empaque", dto.CreateOrderRequest{Items: []dto.OrderItemInput{{
			Name: "A", Quantity: 1, UnitPrice: dec("1"),
			Packaging: []dto.PackagingInput{{Mode: "SUELTO", Size: "M", Quantity: 1}},
		}}}, "items[0].packaging[0].mode"},
		{"referente sin origen", dto.CreateOrderRequest{Kind: entity.OrderKindReferente}, "source_order_code"},
		{"nuevo con origen", dto.CreateOrderRequest{SourceOrderCode: "VN-000001"}, "source_order_code"},
		{"tipo desconocido", dto.CreateOrderRequest{Kind: "OTRO"}, "kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.in.Name = "Pedido"
			tc.in.ClientID = clientID
			_, err := f.uc.Create(context.Background(), asesor, tc.in)
			rej := requireRejection(t, err, domain.KindValidation)
			assert.Equal(t, tc.field, rej.Field)
			assert.Empty(t, f.store.Orders())
		})
	}
}

func TestCreate_ReintentaAnteColisionDeCodigo(t *testing.T) {
	f := newFixture(t)
	collided := false
	f.store.OnCodeInsert = func(code string) bool {
		if code == "VN-000001" && !collided {
			collided = true
			return true
		}
		return false
	}
	out := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 1, "10")}})
	assert.Equal(t, "VN-000002", out.OrderCode)
	assert.Len(t, f.store.Orders(), 1)
	assert.Len(t, f.store.OrderHistory(out.ID), 1)
}

func TestCreate_ConflictoAlAgotarReintentos(t *testing.T) {
	f := newFixture(t)
	f.store.OnCodeInsert = func(string) bool { return true }
	_, err := f.uc.Create(context.Background(), asesor, dto.CreateOrderRequest{Name: "X", ClientID: clientID})
	rej := requireRejection(t, err, domain.KindConflict)
	assert.Equal(t, "pedido_nacional", rej.Details["family"])
	assert.Equal(t, "VN-000005", rej.Details["last_code"])
	assert.Empty(t, f.store.Orders())
}

func TestCreate_CompletacionClonaLineas(t *testing.T) {
	f := newFixture(t)
	src := f.create(t, dto.CreateOrderRequest{
		Discount: dec("50"),
		Items: []dto.OrderItemInput{
			{Name: "Camiseta", Quantity: 10, UnitPrice: dec("100"), Fabric: "Dry fit",
				Packaging: []dto.PackagingInput{{Mode: entity.PackagingModeIndividual, Size: "M", Quantity: 10, PersonName: "Ana", PersonNumber: "9"}}},
			{Name: "Medias", Quantity: 4, UnitPrice: dec("25"),
				Socks:     []dto.SockInput{{Size: "L", Quantity: 4}},
				Materials: []dto.MaterialInput{{InventoryItemID: "inv-hilo", Quantity: dec("2.5"), Note: "blanco"}, {InventoryItemID: "inv-elastico", Quantity: dec("1")}}},
		},
	})
	_, err := f.uc.ChangeItemStatus(context.Background(), admin, src.ID, src.Items[0].ID, entity.ItemStatusAprobado)
	require.NoError(t, err)
	f.store.Seed(func(tx repository.Store) error {
		return tx.Items().CreateAddition(context.Background(), &entity.OrderItemAddition{
			ID: "add-1", OrderItemID: src.Items[0].ID, Name: "Bordado escudo", Quantity: 10,
		})
	})

	out := f.create(t, dto.CreateOrderRequest{
		Kind:            entity.OrderKindCompletacion,
		SourceOrderCode: src.OrderCode,
	})
	assert.Equal(t, "VN-000002", out.OrderCode)
	require.NotNil(t, out.SourceOrderID)
	assert.Equal(t, src.ID, *out.SourceOrderID)
	require.Len(t, out.Items, 2)
	assert.Equal(t, entity.ItemStatusAprobado, out.Items[0].Status)
	assert.Equal(t, entity.ItemStatusPendiente, out.Items[1].Status)
	assert.Equal(t, "Dry fit", out.Items[0].Fabric)
	require.Len(t, out.Items[0].Packaging, 1)
	assert.Equal(t, "Ana", out.Items[0].Packaging[0].PersonName)
	require.Len(t, out.Items[1].Socks, 1)
	assert.Empty(t, out.Items[0].Materials)
	require.Len(t, out.Items[1].Materials, 2)
	assert.Equal(t, "inv-hilo", out.Items[1].Materials[0].InventoryItemID)
	assert.True(t, dec("2.5").Equal(out.Items[1].Materials[0].Quantity))
	assert.Len(t, f.store.Materials(out.Items[1].ID), 2)
	assert.Len(t, f.store.Materials(src.Items[1].ID), 2, "el origen conserva sus materiales")
	require.Len(t, out.Items[0].Additions, 1)
	assert.Equal(t, "Bordado escudo", out.Items[0].Additions[0].Name)
	assert.Empty(t, out.Items[1].Additions)
	require.Len(t, f.store.Additions(out.Items[0].ID), 1)
	assert.NotEqual(t, "add-1", f.store.Additions(out.Items[0].ID)[0].ID)
	assert.True(t, dec("1100").Equal(out.Total), "el descuento del destino es 0: %s", out.Total)
	for _, it := range out.Items {
		assert.NotEqual(t, src.Items[0].ID, it.ID)
		assert.Len(t, f.store.ItemHistory(it.ID), 1)
	}

	again, err := f.uc.Get(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Len(t, again.Items, 2)
	assert.True(t, dec("550").Equal(again.Total))
}

func TestCreate_CompletacionSinLineasExtra(t *testing.T) {
	f := newFixture(t)
	src := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 10, "100")}})

	_, err := f.uc.Create(context.Background(), asesor, dto.CreateOrderRequest{
		Name:            "Completación",
		ClientID:        clientID,
		Kind:            entity.OrderKindCompletacion,
		SourceOrderCode: src.OrderCode,
		Items:           []dto.OrderItemInput{item("Chaqueta nueva", 5, "300")},
	})
	rej := requireRejection(t, err, domain.KindValidation)
	assert.Equal(t, "items", rej.Field)
	assert.Equal(t, entity.OrderKindCompletacion, rej.Details["kind"])
	assert.Len(t, f.store.Orders(), 1)

	ref := f.create(t, dto.CreateOrderRequest{
		Kind:            entity.OrderKindReferente,
		SourceOrderCode: src.OrderCode,
		Items:           []dto.OrderItemInput{item("Chaqueta nueva", 5, "300")},
	})
	assert.Len(t, ref.Items, 2, "REFERENTE sí admite diseños propios")
}

func TestCreate_ClonacionParcialAbortaTodo(t *testing.T) {
	f := newFixture(t)
	src := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{
		{Name: "Camiseta", Quantity: 10, UnitPrice: dec("100"),
			Materials: []dto.MaterialInput{{InventoryItemID: "inv-tela", Quantity: dec("4")}}},
		{Name: "Pantaloneta", Quantity: 10, UnitPrice: dec("50"),
			Materials: []dto.MaterialInput{{InventoryItemID: "inv-tela", Quantity: dec("2")}}},
	}})
	items, history := f.store.ItemCount(), f.store.ItemHistoryCount()

	writes := 0
	f.store.OnReplaceMaterials = func(string) error {
		writes++
		if writes == 2 {
			return errors.New("materiales corruptos")
		}
		return nil
	}
	_, err := f.uc.Create(context.Background(), asesor, dto.CreateOrderRequest{
		Name: "Completación", ClientID: clientID, Kind: entity.OrderKindCompletacion, SourceOrderCode: src.OrderCode,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "materiales corruptos")
	assert.Equal(t, 2, writes, "la primera línea alcanzó a clonarse antes del fallo")

	orders := f.store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, src.ID, orders[0].ID)
	assert.Equal(t, items, f.store.ItemCount())
	assert.Equal(t, history, f.store.ItemHistoryCount())
	assert.Len(t, f.store.Items(src.ID), 2)
	assert.Len(t, f.notifier.Sent(), 1)

	f.store.OnReplaceMaterials = nil
	out := f.create(t, dto.CreateOrderRequest{Kind: entity.OrderKindCompletacion, SourceOrderCode: src.OrderCode})
	assert.Equal(t, "VN-000002", out.OrderCode)
	assert.Len(t, out.Items, 2)
}

func TestCreate_ReferenteConOrigenInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), asesor, dto.CreateOrderRequest{
		Name: "Ref", ClientID: clientID, Kind: entity.OrderKindReferente, SourceOrderCode: "VN-999999",
	})
	rej := requireRejection(t, err, domain.KindNotFound)
	assert.Equal(t, "VN-999999", rej.Details["pedido_origen"])
	assert.Empty(t, f.store.Orders())
}

func TestCreate_FalloDeNotificacionNoAfectaElPedido(t *testing.T) {
	f := newFixture(t)
	f.notifier.Err = errors.New("broker caído")
	out := f.create(t, dto.CreateOrderRequest{})
	assert.NotEmpty(t, out.ID)
	assert.Len(t, f.store.Orders(), 1)
	assert.Len(t, f.notifier.Sent(), 1)
}

func TestUpdate_DescuentoRecalculaTotal(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{item("Camiseta", 4, "25")}})
	assert.True(t, dec("100").Equal(o.Total))

	d := dec("12.5")
	out, err := f.uc.Update(context.Background(), asesor, o.ID, dto.UpdateOrderRequest{Discount: &d})
	require.NoError(t, err)
	assert.True(t, dec("87.5").Equal(out.Total), "total %s", out.Total)
	assert.Equal(t, o.OrderCode, out.OrderCode)

	bad := dec("101")
	_, err = f.uc.Update(context.Background(), asesor, o.ID, dto.UpdateOrderRequest{Discount: &bad})
	requireRejection(t, err, domain.KindValidation)
}

func TestChangeStatus_PedidoConHistorial(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{})

	out, err := f.uc.ChangeStatus(context.Background(), asesor, o.ID, entity.OrderStatusAprobacionInicial)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAprobacionInicial, out.Status)

	_, err = f.uc.ChangeStatus(context.Background(), asesor, o.ID, entity.OrderStatusAprobacionInicial)
	require.NoError(t, err)

	_, err = f.uc.ChangeStatus(context.Background(), asesor, o.ID, entity.OrderStatusProduccion)
	rej := requireRejection(t, err, domain.KindForbidden)
	assert.Equal(t, entity.OrderStatusAprobacionInicial, rej.Details["from"])

	hist, err := f.uc.History(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.OrderStatusPendiente, hist[0].Status)
	assert.Equal(t, entity.OrderStatusAprobacionInicial, hist[1].Status)
}

func TestDelete_CascadaYDesvinculaPrefactura(t *testing.T) {
	f := newFixture(t)
	o := f.create(t, dto.CreateOrderRequest{Items: []dto.OrderItemInput{{
		Name: "Camiseta", Quantity: 2, UnitPrice: dec("10"),
		Packaging: []dto.PackagingInput{{Mode: entity.PackagingModeAgrupado, Size: "S", Quantity: 2}},
	}}})
	orderID := o.ID
	f.store.Seed(func(tx repository.Store) error {
		return tx.Prefacturas().Create(context.Background(), &entity.Prefactura{
			ID: "pre-1", PrefacturaCode: "PRE10001", QuotationID: "q-1", OrderID: &orderID,
		})
	})
	itemID := o.Items[0].ID

	require.NoError(t, f.uc.Delete(context.Background(), admin, o.ID))

	assert.Empty(t, f.store.Orders())
	assert.Empty(t, f.store.Items(o.ID))
	assert.Empty(t, f.store.Packaging(itemID))
	assert.Empty(t, f.store.ItemHistory(itemID))
	assert.Empty(t, f.store.OrderHistory(o.ID))
	pres := f.store.Prefacturas()
	require.Len(t, pres, 1)
	assert.Nil(t, pres[0].OrderID)

	err := f.uc.Delete(context.Background(), admin, o.ID)
	requireRejection(t, err, domain.KindNotFound)
}

func TestList_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	f.create(t, dto.CreateOrderRequest{})
	f.create(t, dto.CreateOrderRequest{})

	out, err := f.uc.List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "VN-000002", out.Items[0].OrderCode)
	assert.Equal(t, 20, out.Page.Limit)
	assert.Equal(t, 2, out.Page.Total)
}

func TestList_TotalCuentaTodosLosPedidos(t *testing.T) {
	f := newFixture(t)
	for range 3 {
		f.create(t, dto.CreateOrderRequest{})
	}

	out, err := f.uc.List(context.Background(), dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "VN-000002", out.Items[0].OrderCode)
	assert.Equal(t, 3, out.Page.Total)
}
