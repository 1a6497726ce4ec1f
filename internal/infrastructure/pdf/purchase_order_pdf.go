// Package pdf genera la orden de compra imprimible que se envía al proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa            │  N° Orden + Estado + Fechas   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + contacto                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Variante | Cant | Recibido | Costo | Total│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / Envío / TOTAL              │
//	│  QR con el número de orden para la recepción en bodega      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ purchasing.PurchaseOrderPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa purchasing.PurchaseOrderPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	companyName string
}

// NewMarotoPDFGenerator construye el generador; companyName va en el encabezado.
func NewMarotoPDFGenerator(companyName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{companyName: companyName}
}

// GeneratePurchaseOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GeneratePurchaseOrderPDF(
	_ context.Context,
	po *entity.PurchaseOrder,
	supplier *entity.Supplier,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de compra "+po.OrderNumber, true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.companyName, po))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(po.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(po))

	if po.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Notas: "+po.Notes, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(receivingRow(po))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, po *entity.PurchaseOrder) core.Row {
	expected := "-"
	if po.ExpectedDate != nil {
		expected = po.ExpectedDate.Format("02/01/2006")
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Compras"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(po.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Estado: "+po.Status, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Fecha: %s   |   Entrega esperada: %s", po.OrderDate.Format("02/01/2006"), expected), props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

func supplierRow(s *entity.Supplier) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s",
				nonEmpty(s.Email, "-"),
				nonEmpty(s.Phone, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
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
		h("Variante", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Recibido", 2, align.Center),
		h("Costo unit.", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []entity.PurchaseOrderItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		variant := "-"
		if it.VariantID != nil {
			variant = *it.VariantID
		}
		out = append(out, row.New(7).Add(
			col.New(3).Add(text.New(it.ProductID, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(variant, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", it.ReceivedQuantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(it.UnitCost.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(it.LineTotal.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(po *entity.PurchaseOrder) core.Row {
	cell := func(s string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Top: top}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return text.New(s, p)
	}
	return row.New(24).Add(
		col.New(6), // espacio izquierdo
		col.New(3).Add(
			cell("Subtotal:", 1, false),
			cell("Impuestos:", 6, false),
			cell("Envío:", 11, false),
			cell("TOTAL:", 17, true),
		),
		col.New(3).Add(
			cell(po.Subtotal.StringFixed(2), 1, false),
			cell(po.Tax.StringFixed(2), 6, false),
			cell(po.Shipping.StringFixed(2), 11, false),
			cell(po.Total.StringFixed(2), 17, true),
		),
	)
}

// receivingRow QR con el número de orden para la recepción en bodega.
func receivingRow(po *entity.PurchaseOrder) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(po.OrderNumber, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Presente este documento al entregar la mercancía.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Las cantidades recibidas no pueden superar las pedidas.", props.Text{
				Size: 8, Top: 10, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
