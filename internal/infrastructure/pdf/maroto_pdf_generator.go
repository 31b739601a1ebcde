// Package pdf genera el comprobante imprimible de un movimiento de inventario.
//
// Layout de la página A5:
//
//	┌──────────────────────────────────────────────┐
//	│  COMPROBANTE DE MOVIMIENTO   │  N° + Fecha   │
//	│  ──────────────────────────────────────────  │
//	│  Tipo / Producto / Cantidad                  │
//	│  Origen / Destino / Proveedor / Responsable  │
//	│  Nota                                        │
//	│  ──────────────────────────────────────────  │
//	│  Confirmación + QR                           │
//	└──────────────────────────────────────────────┘
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

	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
)

var _ appinv.VoucherGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.VoucherGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator title aparece como autor del documento (nombre de la app).
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: title}
}

// GenerateVoucher genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateVoucher(_ context.Context, v appinv.Voucher) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Movimiento %d", v.Movement.ID), true).
		WithAuthor(nonEmpty(g.title, "inventario"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailRows(v)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(v))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y N° + fecha (der).
func headerRow(v appinv.Voucher) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("COMPROBANTE DE MOVIMIENTO", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New(v.Movement.Tipo.Label(), props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("N° %d", v.Movement.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+v.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// detailRows: una fila etiqueta/valor por dato presente.
func detailRows(v appinv.Voucher) []core.Row {
	c := v.Confirmation
	pairs := [][2]string{
		{"Producto", c.Producto},
		{"Cantidad", inventory.FormatQuantity(v.Movement.Cantidad)},
		{"Origen", c.Origen},
		{"Destino", c.Destino},
		{"Proveedor", c.Proveedor},
		{"Responsable", c.Persona},
	}
	if v.Movement.Nota != nil {
		pairs = append(pairs, [2]string{"Nota", *v.Movement.Nota})
	}
	if v.IssuedBy != "" {
		pairs = append(pairs, [2]string{"Emitido por", v.IssuedBy})
	}

	rows := make([]core.Row, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(p[0]+":", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			})),
			col.New(8).Add(text.New(p[1], props.Text{
				Size: 8, Top: 1,
			})),
		))
	}
	return rows
}

// footerRow: mensaje de confirmación + QR con la referencia del movimiento.
func footerRow(v appinv.Voucher) core.Row {
	ref := fmt.Sprintf("MOV-%d|%s|%d|%s", v.Movement.ID, v.Movement.Tipo, v.Movement.ProductoID, v.Movement.Cantidad.String())
	return row.New(40).Add(
		col.New(8).Add(
			text.New(v.Confirmation.Message, props.Text{
				Size: 8, Top: 4, Right: 3, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr(ref, props.Rect{
			Percent: 90,
			Center:  true,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
