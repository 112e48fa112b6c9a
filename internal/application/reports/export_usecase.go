package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/copypoint/copypoint-api/internal/application/ledger"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
	"github.com/copypoint/copypoint-api/internal/domain/repository"
)

// ExportUseCase genera los reportes descargables (historial de movimientos y
// evaluación de stock bajo). Se apoya en los casos de uso de consulta: los
// reportes respetan los mismos filtros y límites que la consulta en línea.
type ExportUseCase struct {
	query    *ledger.MovementQueryUseCase
	lowStock *ledger.LowStockUseCase
	itemRepo repository.ItemRepository
	pdfGen   MovementPDFGenerator
	sheetGen SpreadsheetGenerator
}

// NewExportUseCase construye el caso de uso inyectando los generadores.
func NewExportUseCase(
	query *ledger.MovementQueryUseCase,
	lowStock *ledger.LowStockUseCase,
	itemRepo repository.ItemRepository,
	pdfGen MovementPDFGenerator,
	sheetGen SpreadsheetGenerator,
) *ExportUseCase {
	return &ExportUseCase{
		query:    query,
		lowStock: lowStock,
		itemRepo: itemRepo,
		pdfGen:   pdfGen,
		sheetGen: sheetGen,
	}
}

// MovementsPDF genera el PDF del historial de movimientos que cumple el filtro.
func (uc *ExportUseCase) MovementsPDF(ctx context.Context, f ledger.QueryFilter) (pdfBytes []byte, filename string, err error) {
	rows, err := uc.movementRows(ctx, f)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.pdfGen.GenerateMovementsPDF(ctx, rows, ReportPeriod{From: f.From, To: f.To})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación de PDF fallida: %w", err)
	}
	return pdfBytes, reportFilename("movimientos", "pdf"), nil
}

// MovementsXLSX genera el XLSX del historial de movimientos que cumple el filtro.
func (uc *ExportUseCase) MovementsXLSX(ctx context.Context, f ledger.QueryFilter) (xlsxBytes []byte, filename string, err error) {
	rows, err := uc.movementRows(ctx, f)
	if err != nil {
		return nil, "", err
	}
	xlsxBytes, err = uc.sheetGen.GenerateMovementsXLSX(ctx, rows, ReportPeriod{From: f.From, To: f.To})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación de XLSX fallida: %w", err)
	}
	return xlsxBytes, reportFilename("movimientos", "xlsx"), nil
}

// LowStockXLSX genera el XLSX de la evaluación de stock bajo.
func (uc *ExportUseCase) LowStockXLSX(ctx context.Context, category string) (xlsxBytes []byte, filename string, err error) {
	entries, err := uc.lowStock.EvaluateLowStock(ctx, category)
	if err != nil {
		return nil, "", err
	}
	xlsxBytes, err = uc.sheetGen.GenerateLowStockXLSX(ctx, entries)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación de XLSX fallida: %w", err)
	}
	return xlsxBytes, reportFilename("stock_bajo", "xlsx"), nil
}

// movementRows consulta los movimientos y los enriquece con SKU y nombre del
// artículo (fallback al ID si el artículo ya no se puede cargar).
func (uc *ExportUseCase) movementRows(ctx context.Context, f ledger.QueryFilter) ([]MovementReportRow, error) {
	movs, err := uc.query.QueryMovements(ctx, f)
	if err != nil {
		return nil, err
	}
	names := make(map[string]*entity.Item)
	rows := make([]MovementReportRow, 0, len(movs))
	for _, m := range movs {
		item, ok := names[m.ItemID]
		if !ok {
			item, _ = uc.itemRepo.GetByID(ctx, m.ItemID)
			names[m.ItemID] = item
		}
		row := MovementReportRow{Movement: *m, SKU: m.ItemID, ItemName: "Artículo " + m.ItemID}
		if item != nil {
			row.SKU = item.SKU
			row.ItemName = item.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func reportFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}
