package reports

import (
	"context"
	"time"

	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// MovementReportRow fila del reporte de movimientos: el movimiento enriquecido
// con los datos del artículo para mostrar.
type MovementReportRow struct {
	Movement entity.Movement
	SKU      string
	ItemName string
}

// ReportPeriod rango de fechas del reporte (los extremos pueden faltar).
type ReportPeriod struct {
	From *time.Time
	To   *time.Time
}

// MovementPDFGenerator renderiza el historial de movimientos a PDF. La
// obtención y el filtrado de los datos es responsabilidad del caso de uso;
// el generador solo pinta.
type MovementPDFGenerator interface {
	GenerateMovementsPDF(ctx context.Context, rows []MovementReportRow, period ReportPeriod) ([]byte, error)
}

// SpreadsheetGenerator renderiza los reportes tabulares a XLSX.
type SpreadsheetGenerator interface {
	GenerateMovementsXLSX(ctx context.Context, rows []MovementReportRow, period ReportPeriod) ([]byte, error)
	GenerateLowStockXLSX(ctx context.Context, entries []entity.LowStockEntry) ([]byte, error)
}
