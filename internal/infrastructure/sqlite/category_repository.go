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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre SQLite.
type CategoryRepo struct {
	q Querier
}

func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categorySelect = `
	SELECT c.id, c.name, c.description, c.color, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id)
	FROM categories c`

func scanCategory(s rowScanner) (*entity.Category, error) {
	var c entity.Category
	var created, updated timeValue
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &created, &updated, &c.ProductCount); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = created.Time, updated.Time
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `INSERT INTO categories (id, name, description, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.Color, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nombre de categoría ya registrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `c.id = ?`, id)
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `c.name = ?`, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, cond string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRowContext(ctx, categorySelect+` WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `UPDATE categories SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query, c.Name, c.Description, c.Color, formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nombre de categoría ya registrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("update category: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.QueryContext(ctx, categorySelect+` ORDER BY c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
