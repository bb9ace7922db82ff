package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos.
// Los Get devuelven (nil, nil) cuando el registro no existe.
type OrderRepository interface {
	// Create inserta el pedido; un order_code repetido devuelve domain.ErrDuplicate.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByCode(ctx context.Context, code string) (*entity.Order, error)
	// ListCodesByPrefix devuelve los códigos que empiezan por prefix (sin distinguir mayúsculas).
	ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Order, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

// OrderItemRepository persistencia de líneas de diseño y sus sub-registros.
// Los Replace* borran todo lo existente de la línea e insertan la lista dada.
type OrderItemRepository interface {
	Create(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.OrderItem, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	Update(ctx context.Context, item *entity.OrderItem) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error

	ListPackaging(ctx context.Context, itemID string) ([]*entity.Packaging, error)
	ReplacePackaging(ctx context.Context, itemID string, rows []*entity.Packaging) error
	ListSocks(ctx context.Context, itemID string) ([]*entity.Sock, error)
	ReplaceSocks(ctx context.Context, itemID string, rows []*entity.Sock) error
	ListMaterials(ctx context.Context, itemID string) ([]*entity.Material, error)
	ReplaceMaterials(ctx context.Context, itemID string, rows []*entity.Material) error

	// CreateAddition devuelve domain.ErrSchemaMissing si la tabla de adiciones no existe.
	CreateAddition(ctx context.Context, addition *entity.OrderItemAddition) error
	ListAdditions(ctx context.Context, itemID string) ([]*entity.OrderItemAddition, error)
	DeleteAdditions(ctx context.Context, itemID string) error
}

// StatusHistoryRepository historial append-only de estados de pedidos y líneas.
type StatusHistoryRepository interface {
	AppendOrder(ctx context.Context, h *entity.StatusHistory) error
	AppendItem(ctx context.Context, h *entity.StatusHistory) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.StatusHistory, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.StatusHistory, error)
	// DeleteByOrder / DeleteByItem solo se usan en el borrado en cascada del dueño.
	DeleteByOrder(ctx context.Context, orderID string) error
	DeleteByItem(ctx context.Context, itemID string) error
}
