package usecase_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/application/usecase"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newProductUseCase(db *sql.DB) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(sqlite.NewTxRunner(db), sqlite.NewProductRepository(db), logger.Nop())
}

func ptr[T any](v T) *T { return &v }

func TestProductUseCase_CrearConStockInicial(t *testing.T) {
	db := openDB(t)
	uc := newProductUseCase(db)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Name: "  Agua destilada ", CASNumber: "7732-18-5", Unit: entity.UnitLITRE,
		InitialStock: ptr(decimal.RequireFromString("100.5")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Agua destilada", p.Name)
	assert.Equal(t, entity.DefaultLowStockThreshold, p.LowStockThreshold)
	require.NotNil(t, p.Inventory)
	assert.True(t, p.Inventory.CurrentStock.Equal(decimal.RequireFromString("100.5")))

	movements, total, err := sqlite.NewStockMovementRepository(db).List(ctx, repositoryFilter(p.ID))
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.NotNil(t, movements[0].Notes)
	assert.Equal(t, entity.InitialStockNote, *movements[0].Notes)
}

func TestProductUseCase_CrearSinStockNoRegistraMovimiento(t *testing.T) {
	db := openDB(t)
	uc := newProductUseCase(db)
	p, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Etanol", CASNumber: "64-17-5", Unit: entity.UnitLITRE})
	require.NoError(t, err)
	require.NotNil(t, p.Inventory)
	assert.True(t, p.Inventory.CurrentStock.IsZero())

	_, total, err := sqlite.NewStockMovementRepository(db).List(context.Background(), repositoryFilter(p.ID))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestProductUseCase_CASDuplicadoNoCreaNada(t *testing.T) {
	db := openDB(t)
	uc := newProductUseCase(db)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Etanol", CASNumber: "64-17-5", Unit: entity.UnitLITRE})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Alcohol", CASNumber: "64-17-5", Unit: entity.UnitKG})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx, dto.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Pagination.Total)
}

func TestProductUseCase_Validaciones(t *testing.T) {
	uc := newProductUseCase(openDB(t))
	ctx := context.Background()
	cases := map[string]dto.CreateProductRequest{
		"cas":       {Name: "Etanol", CASNumber: "64175", Unit: entity.UnitLITRE},
		"unidad":    {Name: "Etanol", CASNumber: "64-17-5", Unit: "GAL"},
		"nombre":    {Name: "E", CASNumber: "64-17-5", Unit: entity.UnitLITRE},
		"umbral":    {Name: "Etanol", CASNumber: "64-17-5", Unit: entity.UnitLITRE, LowStockThreshold: ptr(-1)},
		"stock":     {Name: "Etanol", CASNumber: "64-17-5", Unit: entity.UnitLITRE, InitialStock: ptr(decimal.NewFromInt(-5))},
		"categoria": {Name: "Etanol", CASNumber: "64-17-5", Unit: entity.UnitLITRE, CategoryID: ptr("00000000-0000-0000-0000-000000000009")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductUseCase_ActualizarYQuitarCategoria(t *testing.T) {
	db := openDB(t)
	uc := newProductUseCase(db)
	categories := usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(db))
	ctx := context.Background()

	cat, err := categories.Create(ctx, dto.CreateCategoryRequest{Name: "Solventes"})
	require.NoError(t, err)
	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Name: "Acetona", CASNumber: "67-64-1", Unit: entity.UnitLITRE, CategoryID: &cat.ID,
		InitialStock: ptr(decimal.NewFromInt(7)),
	})
	require.NoError(t, err)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Solventes", p.Category.Name)

	// categoryId ausente: no cambia
	var keep dto.UpdateProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Acetona pura"}`), &keep))
	p, err = uc.Update(ctx, p.ID, keep)
	require.NoError(t, err)
	assert.Equal(t, "Acetona pura", p.Name)
	require.NotNil(t, p.CategoryID)

	// categoryId null: se quita
	var clear dto.UpdateProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"categoryId":null,"lowStockThreshold":3}`), &clear))
	p, err = uc.Update(ctx, p.ID, clear)
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.Category)
	assert.Equal(t, 3, p.LowStockThreshold)
	require.NotNil(t, p.Inventory)
	assert.True(t, p.Inventory.CurrentStock.Equal(decimal.NewFromInt(7)), "actualizar no toca el stock")
}

func TestProductUseCase_Borrado(t *testing.T) {
	db := openDB(t)
	uc := newProductUseCase(db)
	ctx := context.Background()
	hexano, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Hexano", CASNumber: "110-54-3", Unit: entity.UnitLITRE, InitialStock: ptr(decimal.NewFromInt(2))})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, hexano.ID))
	_, err = uc.GetByID(ctx, hexano.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, hexano.ID), domain.ErrNotFound)
}

func TestProductUseCase_ListarBuscaPorNombreOCAS(t *testing.T) {
	uc := newProductUseCase(openDB(t))
	ctx := context.Background()
	for _, in := range []dto.CreateProductRequest{
		{Name: "Metanol", CASNumber: "67-56-1", Unit: entity.UnitLITRE},
		{Name: "Etanol", CASNumber: "64-17-5", Unit: entity.UnitLITRE},
		{Name: "Sal", CASNumber: "7647-14-5", Unit: entity.UnitKG},
	} {
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	res, err := uc.List(ctx, dto.ProductQuery{Search: "tanol", SortBy: "name", SortOrder: "ASC"})
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Equal(t, "Etanol", res.Products[0].Name)
	assert.Equal(t, 1, res.Pagination.TotalPages)

	res, err = uc.List(ctx, dto.ProductQuery{Search: "7647"})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Sal", res.Products[0].Name)

	_, err = uc.List(ctx, dto.ProductQuery{SortBy: "password"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
