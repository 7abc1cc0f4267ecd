package report

import (
	"bytes"
	"context"
	"fmt"

	"kflow/pkg/domain"
)

// MarkdownGenerator генератор Markdown отчётов
type MarkdownGenerator struct {
	BaseGenerator
}

// NewMarkdownGenerator создаёт новый генератор
func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

// Format возвращает формат генератора
func (g *MarkdownGenerator) Format() string {
	return "markdown"
}

// Generate генерирует Markdown отчёт
func (g *MarkdownGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	g.writeHeader(&buf, data)
	g.writeSummary(&buf, data)
	if data.Problem != nil {
		g.writeNetwork(&buf, data.Problem)
	}
	if data.Solution.Feasible && len(data.Solution.Paths) > 0 {
		g.writePaths(&buf, data)
		g.writeStatistics(&buf, data)
	}

	return buf.Bytes(), nil
}

func (g *MarkdownGenerator) writeHeader(buf *bytes.Buffer, data *Data) {
	fmt.Fprintf(buf, "# %s\n\n", g.GetTitle(data))
	fmt.Fprintf(buf, "- **Generated:** %s\n", g.FormatTimestamp(g.GeneratedAt(data)))
	fmt.Fprintf(buf, "- **Author:** %s\n", g.GetAuthor(data))
	if data.RunID != "" {
		fmt.Fprintf(buf, "- **Run:** `%s`\n", data.RunID)
	}
	buf.WriteString("\n---\n\n")
}

func (g *MarkdownGenerator) writeSummary(buf *bytes.Buffer, data *Data) {
	sol := data.Solution

	buf.WriteString("## Summary\n\n")
	buf.WriteString("| Metric | Value |\n")
	buf.WriteString("|--------|-------|\n")

	if p := data.Problem; p != nil {
		fmt.Fprintf(buf, "| Vertices | %d |\n", p.VertexCount)
		fmt.Fprintf(buf, "| Edges | %d |\n", p.EdgeCount())
		fmt.Fprintf(buf, "| Source → Sink | %d → %d |\n", p.Source+1, p.Sink+1)
		fmt.Fprintf(buf, "| Mode | %s |\n", p.Mode)
	}
	fmt.Fprintf(buf, "| Required flow (k) | %d |\n", sol.K)

	if sol.Feasible {
		buf.WriteString("| Status | ✅ Feasible |\n")
		fmt.Fprintf(buf, "| Total cost | %d |\n", sol.TotalCost)
		fmt.Fprintf(buf, "| Average cost | %s |\n", g.FormatAverage(data))
	} else {
		buf.WriteString("| Status | ❌ Infeasible |\n")
	}
	fmt.Fprintf(buf, "| Rounds | %d |\n", sol.Rounds)
	fmt.Fprintf(buf, "| Computation time | %s |\n\n", g.FormatDuration(sol.ComputationTime))
}

func (g *MarkdownGenerator) writeNetwork(buf *bytes.Buffer, p *domain.Problem) {
	stats := domain.CalculateProblemStatistics(p)

	buf.WriteString("## Network\n\n")
	fmt.Fprintf(buf, "- Edge cost: min %d, max %d, total %d\n", stats.MinCost, stats.MaxCost, stats.TotalCost)
	fmt.Fprintf(buf, "- Degree: avg %s, max %d\n", g.FormatFloat(stats.AverageDegree, 2), stats.MaxDegree)
	fmt.Fprintf(buf, "- Density: %s\n", g.FormatFloat(stats.Density, 4))
	if stats.IsolatedVertices > 0 || stats.SelfLoops > 0 {
		fmt.Fprintf(buf, "- Isolated vertices: %d, self-loops: %d\n", stats.IsolatedVertices, stats.SelfLoops)
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writePaths(buf *bytes.Buffer, data *Data) {
	buf.WriteString("## Paths\n\n")
	buf.WriteString("| # | Length | Cost | Edges | Vertices |\n")
	buf.WriteString("|---|--------|------|-------|----------|\n")

	for i, p := range data.Solution.Paths {
		fmt.Fprintf(buf, "| %d | %d | %d | %s | %s |\n",
			i+1, p.Len(), p.Cost, JoinInts(p.Edges, ", "), JoinInts(p.Vertices, " → "))
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeStatistics(buf *bytes.Buffer, data *Data) {
	stats := domain.CalculateSolutionStatistics(data.Solution)

	buf.WriteString("## Path Statistics\n\n")
	fmt.Fprintf(buf, "- Path length: min %d, max %d, avg %s\n",
		stats.MinPathLength, stats.MaxPathLength, g.FormatFloat(stats.AvgPathLength, 2))
	fmt.Fprintf(buf, "- Path cost: min %d, max %d, spread %d\n",
		stats.MinPathCost, stats.MaxPathCost, stats.CostSpread)
	fmt.Fprintf(buf, "- Distinct edges used: %d\n", stats.DistinctEdges)
}
