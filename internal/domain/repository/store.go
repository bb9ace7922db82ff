package repository

import "context"

// Store agrupa los repositorios atados a una misma transacción.
type Store interface {
	Orders() OrderRepository
	Items() OrderItemRepository
	History() StatusHistoryRepository
	Prefacturas() PrefacturaRepository
	Quotations() QuotationRepository
	Clients() ClientRepository
	LegalStatuses() LegalStatusRepository
	// Savepoint ejecuta fn bajo un savepoint: si fn falla se revierte solo lo hecho por fn
	// y la transacción externa sigue utilizable.
	Savepoint(ctx context.Context, fn func() error) error
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn retorna nil, Rollback si no.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}
