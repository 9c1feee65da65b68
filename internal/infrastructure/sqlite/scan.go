package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/entity"
)

// timeLayout UTC con nanosegundos de ancho fijo: ordenable como texto.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timeValue sql.Scanner para columnas de fecha guardadas como TEXT (admite NULL).
type timeValue struct {
	Time  time.Time
	Valid bool
}

func (tv *timeValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		tv.Time, tv.Valid = time.Time{}, false
		return nil
	case time.Time:
		tv.Time, tv.Valid = v.UTC(), true
		return nil
	case string:
		return tv.parse(v)
	case []byte:
		return tv.parse(string(v))
	}
	return fmt.Errorf("fecha: tipo no soportado %T", src)
}

func (tv *timeValue) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("fecha %q: %w", s, err)
	}
	tv.Time, tv.Valid = t.UTC(), true
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

const productColumns = `
	p.id, p.name, p.cas_number, p.unit, p.description, p.category_id, p.low_stock_threshold, p.created_at, p.updated_at,
	c.id, c.name, c.description, c.color, c.created_at, c.updated_at`

const productJoins = `LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

type productRow struct {
	p          entity.Product
	createdAt  timeValue
	updatedAt  timeValue
	catID      *string
	catName    *string
	catDesc    *string
	catColor   *string
	catCreated timeValue
	catUpdated timeValue
}

func (r *productRow) dest() []any {
	return []any{
		&r.p.ID, &r.p.Name, &r.p.CASNumber, &r.p.Unit, &r.p.Description, &r.p.CategoryID,
		&r.p.LowStockThreshold, &r.createdAt, &r.updatedAt,
		&r.catID, &r.catName, &r.catDesc, &r.catColor, &r.catCreated, &r.catUpdated,
	}
}

func (r *productRow) product() *entity.Product {
	p := r.p
	p.CreatedAt = r.createdAt.Time
	p.UpdatedAt = r.updatedAt.Time
	if r.catID != nil {
		c := &entity.Category{ID: *r.catID, Description: r.catDesc, CreatedAt: r.catCreated.Time, UpdatedAt: r.catUpdated.Time}
		if r.catName != nil {
			c.Name = *r.catName
		}
		if r.catColor != nil {
			c.Color = *r.catColor
		}
		p.Category = c
	}
	return &p
}

func scanProductWithInventory(s rowScanner) (*entity.Product, error) {
	var pr productRow
	var invID *string
	var stock decimal.NullDecimal
	var invUpdated timeValue
	if err := s.Scan(append(pr.dest(), &invID, &stock, &invUpdated)...); err != nil {
		return nil, err
	}
	p := pr.product()
	if invID != nil {
		p.Inventory = &entity.Inventory{ID: *invID, ProductID: p.ID, CurrentStock: stock.Decimal, UpdatedAt: invUpdated.Time}
	}
	return p, nil
}

func scanInventory(s rowScanner) (*entity.Inventory, error) {
	var inv entity.Inventory
	var updated timeValue
	var pr productRow
	dest := append([]any{&inv.ID, &inv.ProductID, &inv.CurrentStock, &updated}, pr.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	inv.UpdatedAt = updated.Time
	inv.Product = pr.product()
	return &inv, nil
}

func scanMovement(s rowScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var created timeValue
	var pr productRow
	dest := append([]any{&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes, &created}, pr.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	m.CreatedAt = created.Time
	m.Product = pr.product()
	return &m, nil
}
