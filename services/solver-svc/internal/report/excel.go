// services/solver-svc/internal/report/excel.go
package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Листы книги
const (
	SheetSummary = "Summary"
	SheetPaths   = "Paths"
)

// ExcelGenerator генератор XLSX отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() string {
	return "xlsx"
}

// Generate генерирует книгу с листами Summary и Paths
func (g *ExcelGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	// Переименовываем дефолтный лист
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	g.writeSummary(f, data, headerStyle)
	if _, err := f.NewSheet(SheetPaths); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	g.writePaths(f, data, headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummary(f *excelize.File, data *Data, headerStyle int) {
	sol := data.Solution
	sheet := SheetSummary

	f.SetCellValue(sheet, "A1", g.GetTitle(data))
	f.MergeCell(sheet, "A1", "B1")

	f.SetCellValue(sheet, "A3", "Metric")
	f.SetCellValue(sheet, "B3", "Value")
	f.SetCellStyle(sheet, "A3", "B3", headerStyle)

	rows := [][2]any{
		{"Author", g.GetAuthor(data)},
		{"Generated", g.FormatTimestamp(g.GeneratedAt(data))},
	}
	if data.RunID != "" {
		rows = append(rows, [2]any{"Run", data.RunID})
	}
	if p := data.Problem; p != nil {
		rows = append(rows,
			[2]any{"Vertices", p.VertexCount},
			[2]any{"Edges", p.EdgeCount()},
			[2]any{"Source", p.Source + 1},
			[2]any{"Sink", p.Sink + 1},
			[2]any{"Mode", p.Mode.String()},
		)
	}
	rows = append(rows,
		[2]any{"Required flow (k)", sol.K},
		[2]any{"Feasible", sol.Feasible},
	)
	if sol.Feasible {
		rows = append(rows,
			[2]any{"Total cost", sol.TotalCost},
			[2]any{"Average cost", sol.AverageCost},
		)
	}
	rows = append(rows,
		[2]any{"Rounds", sol.Rounds},
		[2]any{"Computation time (ms)", float64(sol.ComputationTime.Microseconds()) / 1000},
	)

	for i, r := range rows {
		row := i + 4
		f.SetCellValue(sheet, CellByIndex(0, row), r[0])
		f.SetCellValue(sheet, CellByIndex(1, row), r[1])
	}

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 40)
}

func (g *ExcelGenerator) writePaths(f *excelize.File, data *Data, headerStyle int) {
	sheet := SheetPaths

	headers := []string{"#", "Length", "Cost", "Edges", "Vertices"}
	for i, h := range headers {
		f.SetCellValue(sheet, CellByIndex(i, 1), h)
	}
	f.SetCellStyle(sheet, "A1", CellByIndex(len(headers)-1, 1), headerStyle)

	if !data.Solution.Feasible {
		return
	}

	for i, p := range data.Solution.Paths {
		row := i + 2
		f.SetCellValue(sheet, CellByIndex(0, row), i+1)
		f.SetCellValue(sheet, CellByIndex(1, row), p.Len())
		f.SetCellValue(sheet, CellByIndex(2, row), p.Cost)
		f.SetCellValue(sheet, CellByIndex(3, row), JoinInts(p.Edges, " "))
		f.SetCellValue(sheet, CellByIndex(4, row), JoinInts(p.Vertices, " "))
	}

	f.SetColWidth(sheet, "D", "E", 30)
}
