package repository

import "context"

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Inventory  InventoryRepository
	Movements  StockMovementRepository
	Stats      StatsRepository
}

// TxRunner ejecuta una unidad de trabajo dentro de una transacción de BD.
// Si fn devuelve error se hace Rollback; si devuelve nil, Commit. Igual en todas las implementaciones.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// RunReadOnly da a fn una vista consistente (un único snapshot) de todas las tablas.
	RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// WithinTx ejecuta fn en una transacción de escritura y devuelve su resultado.
func WithinTx[T any](ctx context.Context, runner TxRunner, fn func(ctx context.Context, repos Repositories) (T, error)) (T, error) {
	var out T
	err := runner.Run(ctx, func(ctx context.Context, repos Repositories) error {
		res, err := fn(ctx, repos)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// WithinSnapshot como WithinTx pero sobre una transacción de solo lectura.
func WithinSnapshot[T any](ctx context.Context, runner TxRunner, fn func(ctx context.Context, repos Repositories) (T, error)) (T, error) {
	var out T
	err := runner.RunReadOnly(ctx, func(ctx context.Context, repos Repositories) error {
		res, err := fn(ctx, repos)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
