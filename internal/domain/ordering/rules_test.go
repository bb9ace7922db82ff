package ordering_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stiven2023/vio-app-sub001/internal/domain"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/ordering"
)

func TestValidatePackaging(t *testing.T) {
	ok := &entity.Packaging{Mode: entity.PackagingModeIndividual, Size: "M", Quantity: 1, PersonName: "Ana", PersonNumber: "10"}
	require.NoError(t, ordering.ValidatePackaging("items[0].packaging[0]", ok))

	err := ordering.ValidatePackaging("items[0].packaging[1]", &entity.Packaging{Mode: "SUELTO", Size: "M", Quantity: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	rej, _ := domain.AsRejection(err)
	assert.Equal(t, "items[0].packaging[1].mode", rej.Field)

	err = ordering.ValidatePackaging("p", &entity.Packaging{Mode: entity.PackagingModeAgrupado, Size: "L", Quantity: 0})
	rej, _ = domain.AsRejection(err)
	assert.Equal(t, "p.quantity", rej.Field)
}

func TestValidateItem(t *testing.T) {
	require.NoError(t, ordering.ValidateItem("items[0]", &entity.OrderItem{Quantity: 1, UnitPrice: dec("0")}))

	err := ordering.ValidateItem("items[0]", &entity.OrderItem{Quantity: 0})
	rej, ok := domain.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindValidation, rej.Kind)
	assert.Equal(t, "items[0].quantity", rej.Field)

	err = ordering.ValidateItem("items[1]", &entity.OrderItem{Quantity: 2, Status: "VOLANDO"})
	rej, _ = domain.AsRejection(err)
	assert.Equal(t, "items[1].status", rej.Field)
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ordering.ValidateDiscount("discount", dec("100")))
	assert.Error(t, ordering.ValidateDiscount("discount", dec("100.01")))
	assert.Error(t, ordering.ValidateDiscount("discount", dec("-1")))
}

func TestStatuses(t *testing.T) {
	assert.Len(t, ordering.ItemStatuses(), 20)
	assert.True(t, ordering.IsItemStatus(entity.ItemStatusEnConfeccion))
	assert.False(t, ordering.IsItemStatus("EN_LA_LUNA"))
	assert.True(t, ordering.IsOrderStatus(entity.OrderStatusProduccion))
	assert.True(t, ordering.IsTerminalItemStatus(entity.ItemStatusCancelado))
	assert.True(t, ordering.IsDerivedKind(entity.OrderKindReferente))
	assert.False(t, ordering.IsDerivedKind(entity.OrderKindNuevo))
}
