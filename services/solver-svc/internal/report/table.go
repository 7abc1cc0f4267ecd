package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// TableGenerator генератор табличного отчёта для терминала
type TableGenerator struct {
	BaseGenerator
}

// NewTableGenerator создаёт новый генератор
func NewTableGenerator() *TableGenerator {
	return &TableGenerator{}
}

// Format возвращает формат генератора
func (g *TableGenerator) Format() string {
	return "table"
}

// Generate генерирует две таблицы: сводку и пути
func (g *TableGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	sol := data.Solution

	fmt.Fprintf(&buf, "%s\n\n", g.GetTitle(data))

	summary := tablewriter.NewWriter(&buf)
	summary.SetHeader([]string{"Metric", "Value"})
	for _, row := range g.summaryRows(data) {
		summary.Append(row)
	}
	summary.Render()

	if !sol.Feasible || len(sol.Paths) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteByte('\n')

	paths := tablewriter.NewWriter(&buf)
	paths.SetHeader([]string{"#", "Edges", "Length", "Cost", "Vertices"})
	for i, p := range sol.Paths {
		paths.Append([]string{
			strconv.Itoa(i + 1),
			JoinInts(p.Edges, " "),
			strconv.Itoa(p.Len()),
			humanize.Comma(p.Cost),
			JoinInts(p.Vertices, " → "),
		})
	}
	paths.Render()

	return buf.Bytes(), nil
}

func (g *TableGenerator) summaryRows(data *Data) [][]string {
	sol := data.Solution

	var rows [][]string
	if data.RunID != "" {
		rows = append(rows, []string{"Run", data.RunID})
	}
	if p := data.Problem; p != nil {
		rows = append(rows,
			[]string{"Vertices", humanize.Comma(int64(p.VertexCount))},
			[]string{"Edges", humanize.Comma(int64(p.EdgeCount()))},
			[]string{"Mode", p.Mode.String()},
		)
	}
	rows = append(rows,
		[]string{"Required flow (k)", humanize.Comma(int64(sol.K))},
		[]string{"Feasible", strconv.FormatBool(sol.Feasible)},
	)
	if sol.Feasible {
		rows = append(rows,
			[]string{"Total cost", humanize.Comma(sol.TotalCost)},
			[]string{"Average cost", g.FormatAverage(data)},
		)
	}
	rows = append(rows,
		[]string{"Rounds", humanize.Comma(int64(sol.Rounds))},
		[]string{"Computation time", g.FormatDuration(sol.ComputationTime)},
	)
	return rows
}
