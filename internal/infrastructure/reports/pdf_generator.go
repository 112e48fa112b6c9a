// Package reports implementa los renderizadores de reportes descargables:
// historial de movimientos en PDF (Maroto v2) y reportes tabulares en XLSX
// (excelize).
package reports

import (
	"context"
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

	appreports "github.com/copypoint/copypoint-api/internal/application/reports"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implementa reports.MovementPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	businessName string
}

// NewMarotoReportGenerator construye el generador. businessName encabeza el reporte.
func NewMarotoReportGenerator(businessName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{businessName: businessName}
}

// GenerateMovementsPDF genera el PDF del historial y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementsPDF(
	_ context.Context,
	rows []appreports.MovementReportRow,
	period appreports.ReportPeriod,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de Movimientos de Inventario", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(rows) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del negocio (izq) y periodo del reporte (der).
func headerRow(businessName string, period appreports.ReportPeriod) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Historial de movimientos de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PERIODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(formatPeriod(period), props.Text{
				Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Artículo", 4, align.Left),
		h("Tipo", 2, align.Center),
		h("Cantidad", 1, align.Right),
		h("Referencia", 2, align.Left),
		h("Usuario", 1, align.Left),
	)
}

// tableDetailRows: una fila por movimiento, delta con signo.
func tableDetailRows(rows []appreports.MovementReportRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		m := r.Movement
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				m.Timestamp.Format("02/01/2006 15:04"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				fmt.Sprintf("%s — %s", r.SKU, r.ItemName),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				kindLabel(m.Kind),
				props.Text{Size: 7.5, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%+d", m.Quantity),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				m.DocRef,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				m.Actor,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
		))
	}
	return result
}

// footerRow: total de filas del reporte.
func footerRow(count int) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("Total de movimientos: %d", count),
			props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 2, Right: 1},
		)),
	)
}

func formatPeriod(period appreports.ReportPeriod) string {
	const layout = "02/01/2006"
	switch {
	case period.From != nil && period.To != nil:
		return period.From.Format(layout) + " — " + period.To.Format(layout)
	case period.From != nil:
		return "desde " + period.From.Format(layout)
	case period.To != nil:
		return "hasta " + period.To.Format(layout)
	default:
		return "histórico completo"
	}
}

// kindLabel etiqueta legible de cada tipo de movimiento.
func kindLabel(kind string) string {
	switch kind {
	case entity.MovementKindReceipt:
		return "Entrada"
	case entity.MovementKindSale:
		return "Venta"
	case entity.MovementKindAdjustment:
		return "Ajuste"
	default:
		return kind
	}
}
