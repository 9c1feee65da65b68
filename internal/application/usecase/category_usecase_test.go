package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/application/usecase"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/sqlite"
)

func repositoryFilter(productID string) repository.MovementFilter {
	return repository.MovementFilter{ProductID: productID}
}

func TestCategoryUseCase_CrearConColorPorDefecto(t *testing.T) {
	uc := usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(openDB(t)))
	c, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: " Ácidos "})
	require.NoError(t, err)
	assert.Equal(t, "Ácidos", c.Name)
	assert.Equal(t, entity.DefaultCategoryColor, c.Color)
	require.NotNil(t, c.Count)
	assert.Zero(t, c.Count.Products)
}

func TestCategoryUseCase_NombreDuplicado(t *testing.T) {
	uc := usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(openDB(t)))
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Ácidos"})
	require.NoError(t, err)
	other, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Bases"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Ácidos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, other.ID, dto.UpdateCategoryRequest{Name: ptr("Ácidos")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryUseCase_ColorInvalido(t *testing.T) {
	uc := usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(openDB(t)))
	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Bases", Color: ptr("red")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUseCase_ListaOrdenadaConConteo(t *testing.T) {
	db := openDB(t)
	uc := usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(db))
	products := newProductUseCase(db)
	ctx := context.Background()

	bases, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Bases"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Ácidos"})
	require.NoError(t, err)
	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "Soda cáustica", CASNumber: "1310-73-2", Unit: entity.UnitKG, CategoryID: &bases.ID})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bases", list[0].Name, "orden por nombre (binario)")
	assert.Equal(t, 1, list[0].Count.Products)

	got, err := uc.GetByID(ctx, bases.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count.Products)
}

func TestCategoryUseCase_ActualizarYBorrar(t *testing.T) {
	uc := usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(openDB(t)))
	ctx := context.Background()
	c, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Sales", Description: ptr("inorgánicas")})
	require.NoError(t, err)

	c, err = uc.Update(ctx, c.ID, dto.UpdateCategoryRequest{Description: ptr(""), Color: ptr("#00FF00")})
	require.NoError(t, err)
	assert.Nil(t, c.Description)
	assert.Equal(t, "#00FF00", c.Color)

	require.NoError(t, uc.Delete(ctx, c.ID))
	_, err = uc.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrNotFound)
}
