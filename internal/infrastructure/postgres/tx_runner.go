package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Stiven2023/vio-app-sub001/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore expone los repos sobre una misma pgx.Tx.
type txStore struct {
	tx pgx.Tx
}

func (s *txStore) Orders() repository.OrderRepository    { return NewOrderRepository(s.tx) }
func (s *txStore) Items() repository.OrderItemRepository { return NewOrderItemRepository(s.tx) }
func (s *txStore) History() repository.StatusHistoryRepository {
	return NewStatusHistoryRepository(s.tx)
}
func (s *txStore) Prefacturas() repository.PrefacturaRepository { return NewPrefacturaRepository(s.tx) }
func (s *txStore) Quotations() repository.QuotationRepository   { return NewQuotationRepository(s.tx) }
func (s *txStore) Clients() repository.ClientRepository         { return NewClientRepository(s.tx) }
func (s *txStore) LegalStatuses() repository.LegalStatusRepository {
	return NewLegalStatusRepository(s.tx)
}

// Savepoint usa una transacción anidada de pgx (SAVEPOINT / ROLLBACK TO SAVEPOINT) sobre la misma conexión.
func (s *txStore) Savepoint(ctx context.Context, fn func() error) error {
	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback to savepoint: %w (causa: %w)", rbErr, err)
		}
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
