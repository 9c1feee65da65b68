package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// NewRepositories construye los repositorios sobre q (db o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:   NewProductRepository(q),
		Categories: NewCategoryRepository(q),
		Inventory:  NewInventoryRepository(q),
		Movements:  NewStockMovementRepository(q),
		Stats:      NewStatsRepository(q),
	}
}

// Run BEGIN IMMEDIATE (ver Open): la transacción es la única escritora hasta el Commit.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReadOnly con una sola conexión cualquier transacción ya ve un snapshot estable.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return r.Run(ctx, fn)
}
