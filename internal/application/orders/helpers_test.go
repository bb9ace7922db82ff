package orders_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/application/orders"
	"github.com/Stiven2023/vio-app-sub001/internal/application/policy"
	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/testutil"
)

const clientID = "cli-1"

var (
	admin   = entity.Actor{UserID: "u-admin", Role: entity.RoleAdministrador}
	asesor  = entity.Actor{UserID: "u-asesor", Role: entity.RoleAsesor}
	empaque = entity.Actor{UserID: "u-empaque", Role: entity.RoleOperarioEmpaque}
)

type fixture struct {
	uc       *orders.OrderUseCase
	store    *testutil.MemStore
	notifier *testutil.RecordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemStore()
	store.AddClient(entity.Client{ID: clientID, Name: "Club Deportivo", IdentificationType: "NIT", Identification: "900123456", IsActive: true})
	n := &testutil.RecordingNotifier{}
	uc := orders.NewOrderUseCase(store, policy.DefaultItemTransitions(), policy.DefaultOrderTransitions(), n, zerolog.Nop())
	return &fixture{uc: uc, store: store, notifier: n}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(name string, qty int, price string) dto.OrderItemInput {
	return dto.OrderItemInput{Name: name, Quantity: qty, UnitPrice: dec(price)}
}

func (f *fixture) create(t *testing.T, in dto.CreateOrderRequest) *dto.OrderResponse {
	t.Helper()
	if in.ClientID == "" {
		in.ClientID = clientID
	}
	if in.Name == "" {
		in.Name = "Uniformes"
	}
	out, err := f.uc.Create(context.Background(), asesor, in)
	require.NoError(t, err)
	return out
}

func requireRejection(t *testing.T, err error, kind domain.Kind) *domain.Rejection {
	t.Helper()
	require.Error(t, err)
	rej, ok := domain.AsRejection(err)
	require.True(t, ok, "se esperaba un rechazo tipado, se obtuvo %v", err)
	require.Equal(t, kind, rej.Kind)
	return rej
}
