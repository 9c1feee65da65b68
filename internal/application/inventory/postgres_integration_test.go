package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	appinventory "github.com/jhoicas/chemflo-api/internal/application/inventory"
	"github.com/jhoicas/chemflo-api/internal/application/usecase"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/chemflo-api/pkg/config"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

// newPostgresFixture usa la base de DATABASE_URL; sin ella el test se omite.
// Cada producto creado se borra al terminar (cascada sobre inventario y movimientos).
func newPostgresFixture(t *testing.T) *fixture {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL no definido: se omite la integración con PostgreSQL")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{Driver: config.DriverPostgres, DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))

	runner := postgres.NewTxRunner(pool)
	products := usecase.NewProductUseCase(runner, postgres.NewProductRepository(pool), logger.Nop())
	reports := &fakeReports{}
	return &fixture{
		stock:    appinventory.NewStockUseCase(runner, reports, logger.Nop()),
		products: products,
		reports:  reports,
	}
}

// randomCAS número CAS con formato válido para no chocar con datos existentes.
func randomCAS() string {
	return fmt.Sprintf("%d-%02d-%d", 1000000+rand.Intn(9000000), rand.Intn(100), rand.Intn(10))
}

func (f *fixture) createTempProduct(t *testing.T, initial string, threshold int) string {
	t.Helper()
	id := f.createProduct(t, "Ácido sulfúrico "+randomCAS(), randomCAS(), initial, threshold)
	t.Cleanup(func() { _ = f.products.Delete(context.Background(), id) })
	return id
}

func TestPostgres_SalidasConcurrentesBloqueanLaFila(t *testing.T) {
	f := newPostgresFixture(t)
	ctx := context.Background()
	id := f.createTempProduct(t, "500", 50)

	const workers = 8
	results := make([]error, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, results[i] = f.move(ctx, id, entity.MovementTypeOUT, "300")
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "error inesperado: %v", err)
	}
	assert.Equal(t, 1, ok, "solo una salida de 300 cabe en 500")

	inv, err := f.stock.GetByProductID(ctx, id)
	require.NoError(t, err)
	assert.True(t, inv.CurrentStock.Equal(dec("200")), "stock fue %s", inv.CurrentStock)

	rec, err := f.stock.Reconcile(ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, 2, rec.MovementCount, "stock inicial + la salida aceptada")
}

func TestPostgres_EntradasYSalidasConcurrentesConservanElLibro(t *testing.T) {
	f := newPostgresFixture(t)
	ctx := context.Background()
	id := f.createTempProduct(t, "100", 10)

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		typ := entity.MovementTypeIN
		if i%2 == 1 {
			typ = entity.MovementTypeOUT
		}
		g.Go(func() error {
			_, err := f.move(ctx, id, typ, "7.125")
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	rec, err := f.stock.Reconcile(ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.Consistent, "libro %s vs movimientos %s", rec.CurrentStock, rec.ReplayedStock)
	assert.True(t, rec.CurrentStock.Equal(dec("100")), "10 entradas y 10 salidas de 7.125 sobre 100")
}
