// services/solver-svc/internal/report/pdf.go
package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// maxPDFPaths ограничение числа строк таблицы путей
const maxPDFPaths = 40

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() string {
	return "pdf"
}

// Стили
var (
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}  // #3498db
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	successColor   = &props.Color{Red: 39, Green: 174, Blue: 96}   // #27ae60
	dangerColor    = &props.Color{Red: 231, Green: 76, Blue: 60}   // #e74c3c
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141} // #7f8c8d

	titleStyle = props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	h2Style = props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   4,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	metricValueStyle = props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryColor,
	}

	metricLabelStyle = props.Text{
		Size:  9,
		Align: align.Center,
		Color: darkGrayColor,
		Top:   9,
	}

	tableHeaderStyle = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderTextStyle = props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Center,
	}

	tableCellStyle = &props.Cell{
		BorderType:  border.Bottom,
		BorderColor: lightGrayColor,
	}

	tableCellTextStyle = props.Text{
		Size:  9,
		Align: align.Center,
	}
)

type metricCard struct {
	Label string
	Value string
	Color *props.Color
}

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	g.addHeader(m, data)
	g.addSummary(m, data)
	if data.Solution.Feasible && len(data.Solution.Paths) > 0 {
		g.addSection(m, "Paths")
		g.addPathsTable(m, data)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, data *Data) {
	m.AddRow(14,
		text.NewCol(12, g.GetTitle(data), titleStyle),
	)
	m.AddRow(4,
		line.NewCol(12),
	)
	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Author: %s", g.GetAuthor(data)), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", g.FormatTimestamp(g.GeneratedAt(data))),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)
	if data.RunID != "" {
		m.AddRow(5,
			text.NewCol(12, fmt.Sprintf("Run: %s", data.RunID), smallStyle),
		)
	}
	m.AddRow(6)
}

func (g *PDFGenerator) addSummary(m core.Maroto, data *Data) {
	sol := data.Solution

	if p := data.Problem; p != nil {
		g.addSection(m, "Network")
		g.addMetricCards(m, []metricCard{
			{Label: "Vertices", Value: strconv.Itoa(p.VertexCount)},
			{Label: "Edges", Value: strconv.Itoa(p.EdgeCount())},
			{Label: "Source", Value: strconv.Itoa(p.Source + 1)},
			{Label: "Sink", Value: strconv.Itoa(p.Sink + 1)},
		})
	}

	g.addSection(m, "Result")
	if !sol.Feasible {
		g.addMetricCards(m, []metricCard{
			{Label: "Required flow", Value: strconv.Itoa(sol.K)},
			{Label: "Status", Value: "Infeasible", Color: dangerColor},
			{Label: "Units routed", Value: strconv.Itoa(sol.Rounds)},
		})
		return
	}

	g.addMetricCards(m, []metricCard{
		{Label: "Required flow", Value: strconv.Itoa(sol.K)},
		{Label: "Total cost", Value: strconv.FormatInt(sol.TotalCost, 10), Color: successColor},
		{Label: "Average cost", Value: g.FormatAverage(data), Color: successColor},
		{Label: "Time", Value: g.FormatDuration(sol.ComputationTime)},
	})
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}

	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}

	var cols []core.Col
	for _, card := range cards {
		valueStyle := metricValueStyle
		if card.Color != nil {
			valueStyle.Color = card.Color
		}

		cols = append(cols,
			col.New(colSize).Add(
				text.New(card.Value, valueStyle),
				text.New(card.Label, metricLabelStyle),
			),
		)
	}

	m.AddRow(18, cols...)
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(10,
		text.NewCol(12, title, h2Style),
	)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: primaryColor}),
	)
	m.AddRow(4)
}

func (g *PDFGenerator) addPathsTable(m core.Maroto, data *Data) {
	m.AddRow(8,
		text.NewCol(1, "#", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Length", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Cost", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(7, "Edges", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)

	paths := data.Solution.Paths
	for i, p := range paths {
		if i >= maxPDFPaths {
			m.AddRow(6,
				text.NewCol(12, fmt.Sprintf("... and %d more paths", len(paths)-maxPDFPaths), smallStyle),
			)
			break
		}

		m.AddRow(6,
			text.NewCol(1, strconv.Itoa(i+1), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, strconv.Itoa(p.Len()), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, strconv.FormatInt(p.Cost, 10), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(7, JoinInts(p.Edges, " "), tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}
}
