package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	appreports "github.com/copypoint/copypoint-api/internal/application/reports"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

const sheetName = "Sheet1"

// ExcelReportGenerator implementa reports.SpreadsheetGenerator usando excelize.
type ExcelReportGenerator struct{}

// NewExcelReportGenerator construye el generador.
func NewExcelReportGenerator() *ExcelReportGenerator { return &ExcelReportGenerator{} }

// GenerateMovementsXLSX genera el XLSX del historial de movimientos.
func (g *ExcelReportGenerator) GenerateMovementsXLSX(
	_ context.Context,
	rows []appreports.MovementReportRow,
	period appreports.ReportPeriod,
) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Fecha", "SKU", "Artículo", "Tipo", "Cantidad", "Referencia", "Motivo", "Usuario"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	for i, r := range rows {
		m := r.Movement
		rowNo := i + 2
		f.SetCellValue(sheetName, "A"+fmt.Sprint(rowNo), m.Timestamp.Format("02/01/2006 15:04:05"))
		f.SetCellValue(sheetName, "B"+fmt.Sprint(rowNo), r.SKU)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(rowNo), r.ItemName)
		f.SetCellValue(sheetName, "D"+fmt.Sprint(rowNo), kindLabel(m.Kind))
		f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), m.Quantity)
		f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), m.DocRef)
		f.SetCellValue(sheetName, "G"+fmt.Sprint(rowNo), m.Reason)
		f.SetCellValue(sheetName, "H"+fmt.Sprint(rowNo), m.Actor)
	}

	// Periodo como nota al pie, dos filas debajo de la última.
	noteCell := "A" + fmt.Sprint(len(rows)+3)
	f.SetCellValue(sheetName, noteCell, "Periodo: "+formatPeriod(period))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateLowStockXLSX genera el XLSX de la evaluación de stock bajo.
func (g *ExcelReportGenerator) GenerateLowStockXLSX(
	_ context.Context,
	entries []entity.LowStockEntry,
) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"SKU", "Artículo", "Categoría", "Stock", "Punto de reorden", "Severidad", "Pedido sugerido"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	for i, e := range entries {
		rowNo := i + 2
		f.SetCellValue(sheetName, "A"+fmt.Sprint(rowNo), e.SKU)
		f.SetCellValue(sheetName, "B"+fmt.Sprint(rowNo), e.Name)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(rowNo), e.Category)
		f.SetCellValue(sheetName, "D"+fmt.Sprint(rowNo), e.Quantity)
		f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), e.ReorderThreshold)
		f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), e.Severity)
		f.SetCellValue(sheetName, "G"+fmt.Sprint(rowNo), e.SuggestedReorderQty)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}
