// Package pdf genera el reporte de existencias en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Fecha de generación         │
//	│  RESUMEN: productos / con stock bajo                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | CAS | Categoría | Stock | Umbral | Estado│
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de estados                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorCritical = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorLow      = &props.Color{Red: 200, Green: 120, Blue: 0}
	colorOK       = &props.Color{Red: 20, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa inventory.StockReportGenerator usando Maroto v2.
type StockReportGenerator struct {
	printer *message.Printer
}

// NewStockReportGenerator construye el generador; los números salen con formato es (1.234,5).
func NewStockReportGenerator() *StockReportGenerator {
	return &StockReportGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(report dto.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor("ChemFlo", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableRows(report.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(legendRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report dto.StockReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(report dto.StockReport) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Productos: %d   |   Con stock bajo: %d", report.TotalProducts, report.LowStockCount),
				props.Text{Size: 9, Top: 1, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("CAS", 2, align.Left),
		h("Categoría", 2, align.Left),
		h("Stock", 2, align.Right),
		h("Umbral", 1, align.Right),
		h("Estado", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows una fila por producto.
func (g *StockReportGenerator) tableRows(rows []dto.StockReportRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			cell(r.ProductName, 3, align.Left),
			cell(r.CASNumber, 2, align.Left),
			cell(nonEmpty(r.CategoryName, "Sin categoría"), 2, align.Left),
			cell(g.formatQuantity(r.CurrentStock)+" "+r.Unit, 2, align.Right),
			cell(g.printer.Sprint(r.Threshold), 1, align.Right),
			col.New(2).Add(text.New(statusLabel(r.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: statusColor(r.Status),
			})),
		))
	}
	return result
}

func legendRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Crítico: stock ≤ 50% del umbral. Bajo: stock ≤ umbral. Las cantidades se expresan en la unidad de cada producto.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQuantity separadores de miles según el locale; hasta 3 decimales.
func (g *StockReportGenerator) formatQuantity(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

func statusLabel(s inventory.StockStatus) string {
	switch s {
	case inventory.StatusCritical:
		return "CRÍTICO"
	case inventory.StatusLow:
		return "BAJO"
	}
	return "EN STOCK"
}

func statusColor(s inventory.StockStatus) *props.Color {
	switch s {
	case inventory.StatusCritical:
		return colorCritical
	case inventory.StatusLow:
		return colorLow
	}
	return colorOK
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
