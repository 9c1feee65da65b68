// Package store abre la base configurada (PostgreSQL o SQLite) y expone sus repositorios.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/chemflo-api/internal/domain/repository"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/chemflo-api/pkg/config"
)

// Store repositorios sobre el pool/conexión, más el TxRunner del mismo driver.
type Store struct {
	repository.Repositories
	Users    repository.UserRepository
	TxRunner repository.TxRunner
	Driver   string

	close func()
}

// Open conecta según cfg.Driver y aplica las migraciones embebidas.
func Open(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Repositories: postgres.NewRepositories(pool),
			Users:        postgres.NewUserRepository(pool),
			TxRunner:     postgres.NewTxRunner(pool),
			Driver:       cfg.Driver,
			close:        pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Repositories: sqlite.NewRepositories(db),
			Users:        sqlite.NewUserRepository(db),
			TxRunner:     sqlite.NewTxRunner(db),
			Driver:       cfg.Driver,
			close:        func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("store: driver no soportado %q", cfg.Driver)
}

// Close libera el pool o la conexión.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
