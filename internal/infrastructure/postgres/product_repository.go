package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

var productSortColumns = map[string]string{
	repository.ProductSortName:              "p.name",
	repository.ProductSortCASNumber:         "p.cas_number",
	repository.ProductSortCreatedAt:         "p.created_at",
	repository.ProductSortUpdatedAt:         "p.updated_at",
	repository.ProductSortLowStockThreshold: "p.low_stock_threshold",
}

const productSelect = `SELECT` + productColumns + `,
	i.id, i.current_stock, i.updated_at
	FROM products p ` + productJoins + `
	LEFT JOIN inventory i ON i.product_id = p.id`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, cas_number, unit, description, category_id, low_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.CASNumber, product.Unit, product.Description,
		product.CategoryID, product.LowStockThreshold, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return productWriteError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con categoría e inventario.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProductWithInventory(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCASNumber obtiene un producto por número CAS.
func (r *ProductRepo) GetByCASNumber(ctx context.Context, casNumber string) (*entity.Product, error) {
	p, err := scanProductWithInventory(r.q.QueryRow(ctx, productSelect+` WHERE p.cas_number = $1`, casNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by cas: %w", err)
	}
	return p, nil
}

// Update actualiza los datos del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, cas_number = $3, unit = $4, description = $5, category_id = $6,
			low_stock_threshold = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.CASNumber, product.Unit, product.Description,
		product.CategoryID, product.LowStockThreshold, product.UpdatedAt,
	)
	if err != nil {
		return productWriteError("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto; inventory y stock_movements caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con filtros, orden y paginación; devuelve también el total filtrado.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Search != "" {
		where += fmt.Sprintf(` AND (p.name ILIKE $%d ESCAPE '\' OR p.cas_number ILIKE $%d ESCAPE '\')`, pos, pos)
		args = append(args, containsPattern(f.Search))
		pos++
	}
	if f.CategoryID != "" {
		where += fmt.Sprintf(" AND p.category_id = $%d", pos)
		args = append(args, f.CategoryID)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = "p.created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	query := productSelect + where + fmt.Sprintf(" ORDER BY %s %s, p.id %s", col, dir, dir)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProductWithInventory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func productWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: número CAS ya registrado", domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return domain.Invalid("categoryId", "la categoría no existe")
	}
	return fmt.Errorf("%s: %w", op, err)
}
