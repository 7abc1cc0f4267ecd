package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVGenerator генератор CSV: одна строка на путь
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() string {
	return "csv"
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

// Generate генерирует CSV отчёт. Недостижимый поток даёт только заголовок.
func (g *CSVGenerator) Generate(_ context.Context, data *Data) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{"path", "length", "cost", "edges", "vertices"})
	if data.Solution.Feasible {
		for i, p := range data.Solution.Paths {
			cw.Write([]string{
				strconv.Itoa(i + 1),
				strconv.Itoa(p.Len()),
				strconv.FormatInt(p.Cost, 10),
				JoinInts(p.Edges, " "),
				JoinInts(p.Vertices, " "),
			})
		}
	}

	cw.Flush()
	if cw.err != nil {
		return nil, fmt.Errorf("csv write error: %w", cw.err)
	}

	return buf.Bytes(), nil
}
