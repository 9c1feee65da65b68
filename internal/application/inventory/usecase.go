package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

const recentMovementsLimit = 10 // movimientos recientes en el dashboard

// StockUseCase motor de inventario: mutaciones de stock transaccionales y consultas del libro.
// Toda escritura pasa por UpdateStock; el stock nunca se modifica desde otro caso de uso.
type StockUseCase struct {
	txRunner repository.TxRunner
	reports  StockReportGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso. reports puede ser nil si no se sirve el PDF.
func NewStockUseCase(txRunner repository.TxRunner, reports StockReportGenerator, log *logger.Logger) *StockUseCase {
	return &StockUseCase{
		txRunner: txRunner,
		reports:  reports,
		log:      log,
		now:      time.Now,
	}
}

// UpdateStock aplica un movimiento IN/OUT a un producto.
//
// Dentro de una transacción: bloquea la fila del libro (GetForUpdate), calcula el nuevo
// stock, lo persiste y agrega el movimiento. Si la salida dejaría el stock en negativo
// devuelve *domain.InsufficientStockError y no escribe nada.
func (uc *StockUseCase) UpdateStock(ctx context.Context, productID string, in dto.UpdateStockRequest) (*dto.StockUpdateResponse, error) {
	if err := dto.ValidateUUID("productId", productID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	movement := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		CreatedAt: now,
	}

	updated, err := repository.WithinTx(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (*entity.Inventory, error) {
		// Bloquea la fila hasta el commit: dos salidas concurrentes del mismo producto se serializan
		inv, err := repos.Inventory.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		if inv == nil {
			return nil, domain.ErrNotFound
		}
		unit := ""
		if inv.Product != nil {
			unit = inv.Product.Unit
		}
		newStock, err := inventory.ApplyMovement(inv.CurrentStock, in.Type, in.Quantity, unit)
		if err != nil {
			return nil, err
		}
		if err := repos.Inventory.UpdateStock(ctx, productID, newStock, now); err != nil {
			return nil, err
		}
		if err := repos.Movements.Create(ctx, movement); err != nil {
			return nil, err
		}
		return repos.Inventory.GetByProductID(ctx, productID)
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("inventario: entrada %s desapareció tras actualizar", productID)
	}

	uc.log.Info().
		Str("product_id", productID).
		Str("type", movement.Type).
		Str("quantity", movement.Quantity.String()).
		Str("stock", updated.CurrentStock.String()).
		Msg("movimiento de stock registrado")

	return &dto.StockUpdateResponse{
		Inventory: dto.NewInventoryResponse(updated),
		Movement:  dto.NewStockMovementResponse(movement),
	}, nil
}

// GetByProductID devuelve la entrada del libro de un producto. ErrNotFound si no existe.
func (uc *StockUseCase) GetByProductID(ctx context.Context, productID string) (*dto.InventoryResponse, error) {
	if err := dto.ValidateUUID("productId", productID); err != nil {
		return nil, err
	}
	inv, err := repository.WithinSnapshot(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (*entity.Inventory, error) {
		return repos.Inventory.GetByProductID(ctx, productID)
	})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewInventoryResponse(inv)
	return &out, nil
}

// List lista el libro de stock. lowStockOnly se filtra antes de paginar, así el total es exacto.
func (uc *StockUseCase) List(ctx context.Context, q dto.InventoryQuery) (*dto.InventoryListResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	type page struct {
		items []*entity.Inventory
		total int
	}
	res, err := repository.WithinSnapshot(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (page, error) {
		items, total, err := repos.Inventory.List(ctx, repository.InventoryFilter{
			CategoryID:   q.CategoryID,
			LowStockOnly: q.LowStockOnly,
			Limit:        q.Limit,
			Offset:       q.Offset(),
		})
		return page{items: items, total: total}, err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryListResponse{
		Inventories: make([]dto.InventoryResponse, 0, len(res.items)),
		Pagination:  dto.NewPageResponse(q.PageRequest, res.total),
	}
	for _, inv := range res.items {
		out.Inventories = append(out.Inventories, dto.NewInventoryResponse(inv))
	}
	return out, nil
}

// ListMovements historial de movimientos filtrado, más reciente primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	type page struct {
		items []*entity.StockMovement
		total int
	}
	res, err := repository.WithinSnapshot(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (page, error) {
		items, total, err := repos.Movements.List(ctx, repository.MovementFilter{
			ProductID: q.ProductID,
			Type:      q.Type,
			From:      q.From,
			To:        q.To,
			Limit:     q.Limit,
			Offset:    q.Offset(),
		})
		return page{items: items, total: total}, err
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Movements:  dto.NewStockMovementResponses(res.items),
		Pagination: dto.NewPageResponse(q.PageRequest, res.total),
	}, nil
}

// GetStats agregados del dashboard, todos leídos del mismo snapshot.
func (uc *StockUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	return repository.WithinSnapshot(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (*dto.DashboardStatsResponse, error) {
		totals, err := repos.Stats.Totals(ctx)
		if err != nil {
			return nil, err
		}
		recent, err := repos.Movements.Recent(ctx, recentMovementsLimit)
		if err != nil {
			return nil, err
		}
		return &dto.DashboardStatsResponse{
			TotalProducts:   totals.TotalProducts,
			TotalCategories: totals.TotalCategories,
			LowStockCount:   totals.LowStockCount,
			TotalStockValue: totals.TotalStock,
			RecentMovements: dto.NewStockMovementResponses(recent),
		}, nil
	})
}

// Reconcile reproduce el historial del producto y lo compara contra el stock del libro.
func (uc *StockUseCase) Reconcile(ctx context.Context, productID string) (*dto.ReconcileResponse, error) {
	if err := dto.ValidateUUID("productId", productID); err != nil {
		return nil, err
	}
	out, err := repository.WithinSnapshot(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (*dto.ReconcileResponse, error) {
		inv, err := repos.Inventory.GetByProductID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if inv == nil {
			return nil, domain.ErrNotFound
		}
		replayed, count, err := repos.Movements.Balance(ctx, productID)
		if err != nil {
			return nil, err
		}
		return &dto.ReconcileResponse{
			ProductID:     productID,
			CurrentStock:  inv.CurrentStock,
			ReplayedStock: replayed,
			Difference:    inv.CurrentStock.Sub(replayed),
			MovementCount: count,
			Consistent:    inv.CurrentStock.Equal(replayed),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent {
		uc.log.Warn().
			Str("product_id", productID).
			Str("stock", out.CurrentStock.String()).
			Str("replayed", out.ReplayedStock.String()).
			Msg("libro de stock no concuerda con el historial de movimientos")
	}
	return out, nil
}

// LowStock entradas con stock menor o igual a su umbral.
func (uc *StockUseCase) LowStock(ctx context.Context) ([]dto.InventoryResponse, error) {
	items, err := uc.lowStockEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, dto.NewInventoryResponse(inv))
	}
	return out, nil
}

// LowStockProducts la misma consulta que LowStock, vista como catálogo (GET /api/products/low-stock).
func (uc *StockUseCase) LowStockProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	items, err := uc.lowStockEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(items))
	for _, inv := range items {
		if inv.Product != nil {
			out = append(out, dto.NewLowStockProductResponse(inv))
		}
	}
	return out, nil
}

func (uc *StockUseCase) lowStockEntries(ctx context.Context) ([]*entity.Inventory, error) {
	return repository.WithinSnapshot(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) ([]*entity.Inventory, error) {
		return repos.Inventory.ListLowStock(ctx)
	})
}
