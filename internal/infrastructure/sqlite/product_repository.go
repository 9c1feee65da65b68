package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre SQLite.
type ProductRepo struct {
	q Querier
}

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

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, cas_number, unit, description, category_id, low_stock_threshold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.Name, p.CASNumber, p.Unit, p.Description, p.CategoryID, p.LowStockThreshold,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return productWriteError("insert product", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `p.id = ?`, id)
}

func (r *ProductRepo) GetByCASNumber(ctx context.Context, casNumber string) (*entity.Product, error) {
	return r.getOne(ctx, `p.cas_number = ?`, casNumber)
}

func (r *ProductRepo) getOne(ctx context.Context, cond string, arg any) (*entity.Product, error) {
	p, err := scanProductWithInventory(r.q.QueryRowContext(ctx, productSelect+` WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = ?, cas_number = ?, unit = ?, description = ?, category_id = ?,
			low_stock_threshold = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		p.Name, p.CASNumber, p.Unit, p.Description, p.CategoryID, p.LowStockThreshold, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return productWriteError("update product", err)
	}
	return affectedOrNotFound(res)
}

// Delete elimina el producto; inventory y stock_movements caen en cascada (_foreign_keys=on).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		where += ` AND (p.name LIKE ? ESCAPE '\' OR p.cas_number LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}
	if f.CategoryID != "" {
		where += ` AND p.category_id = ?`
		args = append(args, f.CategoryID)
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
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
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
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

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
