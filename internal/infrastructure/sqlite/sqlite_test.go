package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedProduct inserta producto + entrada de inventario con el stock dado.
func seedProduct(t *testing.T, repos repository.Repositories, name, cas string, stock string, threshold int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	p := &entity.Product{
		ID: uuid.New().String(), Name: name, CASNumber: cas, Unit: entity.UnitLITRE,
		LowStockThreshold: threshold, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Products.Create(ctx, p))
	require.NoError(t, repos.Inventory.Create(ctx, &entity.Inventory{
		ID: uuid.New().String(), ProductID: p.ID, CurrentStock: dec(stock), UpdatedAt: now,
	}))
	return p
}

func TestProductRepo_CrearYLeerConInventario(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	p := seedProduct(t, repos, "Agua destilada", "7732-18-5", "12.75", 10)

	got, err := repos.Products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Agua destilada", got.Name)
	assert.Nil(t, got.Category)
	require.NotNil(t, got.Inventory)
	assert.True(t, got.Inventory.CurrentStock.Equal(dec("12.75")), "el decimal debe conservarse exacto")
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Microsecond)

	byCAS, err := repos.Products.GetByCASNumber(context.Background(), "7732-18-5")
	require.NoError(t, err)
	require.NotNil(t, byCAS)
	assert.Equal(t, p.ID, byCAS.ID)
}

func TestProductRepo_NoExisteDevuelveNil(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	got, err := repos.Products.GetByID(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repos.Products.Delete(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_CASDuplicado(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	seedProduct(t, repos, "Etanol", "64-17-5", "0", 10)

	now := time.Now().UTC()
	err := repos.Products.Create(context.Background(), &entity.Product{
		ID: uuid.New().String(), Name: "Etanol 2", CASNumber: "64-17-5", Unit: entity.UnitLITRE,
		LowStockThreshold: 10, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_CategoriaInexistente(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	now := time.Now().UTC()
	missing := uuid.New().String()
	err := repos.Products.Create(context.Background(), &entity.Product{
		ID: uuid.New().String(), Name: "Acetona", CASNumber: "67-64-1", Unit: entity.UnitLITRE,
		CategoryID: &missing, LowStockThreshold: 10, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductRepo_BusquedaEscapaComodines(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	seedProduct(t, repos, "Ácido 100% puro", "7664-93-9", "5", 10)
	seedProduct(t, repos, "Acetona", "67-64-1", "5", 10)

	list, total, err := repos.Products.List(context.Background(), repository.ProductFilter{Search: "100%", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "7664-93-9", list[0].CASNumber)

	// "_" no debe actuar como comodín de un carácter
	_, total, err = repos.Products.List(context.Background(), repository.ProductFilter{Search: "67_64", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	list, total, err = repos.Products.List(context.Background(), repository.ProductFilter{Search: "67-64", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Acetona", list[0].Name)
}

func TestProductRepo_OrdenYPaginacion(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	seedProduct(t, repos, "Cloroformo", "67-66-3", "1", 10)
	seedProduct(t, repos, "Benceno", "71-43-2", "1", 10)
	seedProduct(t, repos, "Amoníaco", "7664-41-7", "1", 10)

	list, total, err := repos.Products.List(context.Background(), repository.ProductFilter{
		SortBy: repository.ProductSortName, Limit: 2, Offset: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Amoníaco", list[0].Name)
	assert.Equal(t, "Benceno", list[1].Name)

	list, _, err = repos.Products.List(context.Background(), repository.ProductFilter{
		SortBy: repository.ProductSortName, SortDesc: true, Limit: 2, Offset: 2,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Amoníaco", list[0].Name)
}

func TestProductRepo_BorrarEnCascada(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	ctx := context.Background()
	p := seedProduct(t, repos, "Metanol", "67-56-1", "10", 10)
	require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{
		ID: uuid.New().String(), ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: dec("10"), CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, repos.Products.Delete(ctx, p.ID))

	inv, err := repos.Inventory.GetByProductID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, inv)
	_, total, err := repos.Movements.List(ctx, repository.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCategoryRepo_ConteoYBorradoDesvincula(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	c := &entity.Category{ID: uuid.New().String(), Name: "Solventes", Color: "#ff0000", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Categories.Create(ctx, c))

	dup := &entity.Category{ID: uuid.New().String(), Name: "Solventes", Color: "#ff0000", CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, repos.Categories.Create(ctx, dup), domain.ErrDuplicate)

	p := seedProduct(t, repos, "Tolueno", "108-88-3", "3", 10)
	p.CategoryID = &c.ID
	require.NoError(t, repos.Products.Update(ctx, p))

	list, err := repos.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ProductCount)

	got, err := repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Solventes", got.Category.Name)

	require.NoError(t, repos.Categories.Delete(ctx, c.ID))
	got, err = repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "el producto queda sin categoría")
}

func TestInventoryRepo_StockNegativoRechazadoPorCheck(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	p := seedProduct(t, repos, "Hexano", "110-54-3", "5", 10)

	err := repos.Inventory.UpdateStock(context.Background(), p.ID, dec("-1"), time.Now())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestInventoryRepo_FiltroStockBajoAntesDePaginar(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	ctx := context.Background()
	seedProduct(t, repos, "A", "50-00-0", "10", 10) // en el umbral: bajo
	seedProduct(t, repos, "B", "64-19-7", "10.5", 10)
	seedProduct(t, repos, "C", "7647-01-0", "2", 10)
	seedProduct(t, repos, "D", "1310-73-2", "100", 10)

	list, total, err := repos.Inventory.List(ctx, repository.InventoryFilter{LowStockOnly: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "el total cuenta solo las entradas con stock bajo")
	assert.Len(t, list, 1)

	low, err := repos.Inventory.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "A", low[0].Product.Name)
	assert.Equal(t, "C", low[1].Product.Name)

	totals, err := repos.Stats.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, totals.TotalProducts)
	assert.Equal(t, 2, totals.LowStockCount)
	assert.True(t, totals.TotalStock.Equal(dec("122.5")))
}

func TestStockMovementRepo_FiltrosYBalance(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))
	ctx := context.Background()
	p := seedProduct(t, repos, "Acetona", "67-64-1", "0", 10)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	add := func(typ, qty string, at time.Time) {
		require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{
			ID: uuid.New().String(), ProductID: p.ID, Type: typ, Quantity: dec(qty), CreatedAt: at,
		}))
	}
	add(entity.MovementTypeIN, "100", base)
	add(entity.MovementTypeOUT, "30.25", base.Add(24*time.Hour))
	add(entity.MovementTypeIN, "5", base.Add(48*time.Hour))

	list, total, err := repos.Movements.List(ctx, repository.MovementFilter{ProductID: p.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 3)
	assert.True(t, list[0].CreatedAt.Equal(base.Add(48*time.Hour)), "más reciente primero")
	require.NotNil(t, list[0].Product)
	assert.Equal(t, "Acetona", list[0].Product.Name)

	from := base.Add(time.Hour)
	to := base.Add(36 * time.Hour)
	list, total, err = repos.Movements.List(ctx, repository.MovementFilter{From: &from, To: &to, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, entity.MovementTypeOUT, list[0].Type)

	_, total, err = repos.Movements.List(ctx, repository.MovementFilter{Type: entity.MovementTypeIN})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	balance, count, err := repos.Movements.Balance(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, balance.Equal(dec("74.75")), "balance fue %s", balance)

	recent, err := repos.Movements.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	db := openTestDB(t)
	runner := sqlite.NewTxRunner(db)
	ctx := context.Background()

	err := runner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		seedProduct(t, repos, "Xileno", "1330-20-7", "1", 10)
		return domain.ErrInvalidInput
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := sqlite.NewProductRepository(db).GetByCASNumber(ctx, "1330-20-7")
	require.NoError(t, err)
	assert.Nil(t, got, "el rollback descarta el producto")
}

func TestUserRepo_EmailUnico(t *testing.T) {
	repo := sqlite.NewUserRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	u := &entity.User{ID: uuid.New().String(), Email: "admin@chemflo.com", PasswordHash: "x", Name: "Admin", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))

	u2 := *u
	u2.ID = uuid.New().String()
	assert.ErrorIs(t, repo.Create(ctx, &u2), domain.ErrDuplicate)

	got, err := repo.GetByEmail(ctx, "admin@chemflo.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestInventoryRepo_StockBajoConDecimalExacto(t *testing.T) {
	ctx := context.Background()
	repos := sqlite.NewRepositories(openTestDB(t))
	seedProduct(t, repos, "Ácido acético", "64-19-7", "10.0000000000000000001", 10)
	limit := seedProduct(t, repos, "Formaldehído", "50-00-0", "10", 10)

	totals, err := repos.Stats.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.LowStockCount)

	low, err := repos.Inventory.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, totals.LowStockCount)
	assert.Equal(t, limit.ID, low[0].ProductID)

	list, total, err := repos.Inventory.List(ctx, repository.InventoryFilter{LowStockOnly: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, totals.LowStockCount, total)
	require.Len(t, list, 1)
	assert.Equal(t, limit.ID, list[0].ProductID)
}
