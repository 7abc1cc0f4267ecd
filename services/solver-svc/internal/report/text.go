package report

import (
	"bytes"
	"context"
	"strconv"
)

// TextGenerator канонический вывод: "-1" для недостижимого потока, иначе
// средняя стоимость и по строке на путь (число рёбер, номера рёбер)
type TextGenerator struct {
	BaseGenerator
}

// NewTextGenerator создаёт новый генератор
func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

// Format возвращает формат генератора
func (g *TextGenerator) Format() string {
	return "text"
}

// Generate генерирует текстовый отчёт
func (g *TextGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	sol := data.Solution

	if !sol.Feasible {
		buf.WriteString("-1\n")
		return buf.Bytes(), nil
	}

	buf.WriteString(g.FormatAverage(data))
	buf.WriteByte('\n')

	for _, p := range sol.Paths {
		buf.WriteString(strconv.Itoa(p.Len()))
		for _, idx := range p.Edges {
			buf.WriteByte(' ')
			buf.WriteString(strconv.Itoa(idx))
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}
