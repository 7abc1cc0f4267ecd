package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kflow/pkg/domain"
)

// JSONGenerator генератор JSON отчётов
type JSONGenerator struct {
	BaseGenerator
}

// NewJSONGenerator создаёт новый генератор
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Format возвращает формат генератора
func (g *JSONGenerator) Format() string {
	return "json"
}

// JSONReport структура JSON отчёта
type JSONReport struct {
	Title       string           `json:"title"`
	Author      string           `json:"author"`
	GeneratedAt time.Time        `json:"generated_at"`
	RunID       string           `json:"run_id,omitempty"`
	Problem     *JSONProblem     `json:"problem,omitempty"`
	Solution    *domain.Solution `json:"solution"`
	// AverageCost средняя стоимость с точностью отчёта
	AverageCost string `json:"average_cost_formatted,omitempty"`
}

// JSONProblem краткое описание задачи
type JSONProblem struct {
	Name     string `json:"name,omitempty"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
	K        int    `json:"k"`
	Source   int    `json:"source"`
	Sink     int    `json:"sink"`
	Mode     string `json:"mode"`
}

// Generate генерирует JSON отчёт
func (g *JSONGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	report := JSONReport{
		Title:       g.GetTitle(data),
		Author:      g.GetAuthor(data),
		GeneratedAt: g.GeneratedAt(data),
		RunID:       data.RunID,
		Solution:    data.Solution,
	}
	if data.Solution.Feasible {
		report.AverageCost = g.FormatAverage(data)
	}

	if p := data.Problem; p != nil {
		report.Problem = &JSONProblem{
			Name:     p.Name,
			Vertices: p.VertexCount,
			Edges:    p.EdgeCount(),
			K:        p.K,
			Source:   p.Source + 1,
			Sink:     p.Sink + 1,
			Mode:     p.Mode.String(),
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(out, '\n'), nil
}
