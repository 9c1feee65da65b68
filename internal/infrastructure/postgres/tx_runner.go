package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/chemflo-api/internal/domain/repository"
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

// NewRepositories construye los repositorios sobre q (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:   NewProductRepository(q),
		Categories: NewCategoryRepository(q),
		Inventory:  NewInventoryRepository(q),
		Movements:  NewStockMovementRepository(q),
		Stats:      NewStatsRepository(q),
	}
}

// Run transacción READ COMMITTED. Los bloqueos de fila (FOR UPDATE) se mantienen hasta el Commit.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// RunReadOnly transacción REPEATABLE READ READ ONLY: todas las consultas ven el mismo snapshot.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
