// Package pdf genera el reporte de productos en stock bajo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app   │  Título + Fecha de generación │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Categoría | Exist. | Mín. | Faltan │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: productos / unidades faltantes / costo reposición │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

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

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	dominv "github.com/jhoicas/inventario-admin/internal/domain/inventory"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ inventory.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	appName string
	printer *message.Printer
}

// NewMarotoReportGenerator construye el generador. Los números se formatean con separadores en español.
func NewMarotoReportGenerator(appName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{
		appName: appName,
		printer: message.NewPrinter(language.Spanish),
	}
}

// LowStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) LowStockReport(rows []dto.LowStockReportRow, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock bajo", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos en stock bajo.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range rows {
		m.AddRows(g.detailRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReportGenerator) headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE STOCK BAJO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Exist.", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Faltan", 1, align.Right),
		h("Reposición", 2, align.Right),
	)
}

func (g *MarotoReportGenerator) detailRow(r dto.LowStockReportRow) core.Row {
	cell := func(s string, size int, a align.Type, c *props.Color) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: c,
		}))
	}
	qtyColor := (*props.Color)(nil)
	if r.Quantity == 0 {
		qtyColor = colorAlert
	}
	return row.New(7).Add(
		cell(r.SKU, 2, align.Left, nil),
		cell(r.ProductName, 3, align.Left, nil),
		cell(nonEmpty(r.CategoryName, "-"), 2, align.Left, colorGray),
		cell(g.number(r.Quantity), 1, align.Right, qtyColor),
		cell(g.number(r.MinimumStock), 1, align.Right, nil),
		cell(g.number(r.Shortfall), 1, align.Right, nil),
		cell("$"+g.money(dominv.StockValue(r.Shortfall, r.Price)), 2, align.Right, nil),
	)
}

func (g *MarotoReportGenerator) totalsRow(rows []dto.LowStockReportRow) core.Row {
	var units int64
	cost := decimal.Zero
	for _, r := range rows {
		units += r.Shortfall
		cost = cost.Add(dominv.StockValue(r.Shortfall, r.Price))
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Productos:"),
			label("Unidades faltantes:"),
			label("Costo de reposición:"),
		),
		col.New(3).Add(
			value(g.number(int64(len(rows)))),
			value(g.number(units)),
			value("$"+g.money(cost)),
		),
	)
}

func (g *MarotoReportGenerator) number(n int64) string {
	return g.printer.Sprintf("%d", n)
}

// money formatea sin decimales con separador de miles.
func (g *MarotoReportGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("%d", d.Round(0).IntPart())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
