// services/solver-svc/internal/report/generator.go
package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kflow/pkg/apperror"
	"kflow/pkg/domain"
)

// DefaultDecimals точность средней стоимости в отчётах
const DefaultDecimals = 6

// Data данные для генерации отчёта
type Data struct {
	Title  string
	Author string
	// Decimals знаков после запятой у средней стоимости, <= 0 значит DefaultDecimals
	Decimals int

	RunID    string
	Problem  *domain.Problem // может отсутствовать для отчёта из истории
	Solution *domain.Solution

	GeneratedAt time.Time
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, data *Data) ([]byte, error)
	Format() string
}

// New возвращает генератор для формата
func New(format string) (Generator, error) {
	switch format {
	case domain.FormatText, "":
		return NewTextGenerator(), nil
	case domain.FormatTable:
		return NewTableGenerator(), nil
	case domain.FormatJSON:
		return NewJSONGenerator(), nil
	case domain.FormatCSV:
		return NewCSVGenerator(), nil
	case domain.FormatMarkdown:
		return NewMarkdownGenerator(), nil
	case domain.FormatXLSX:
		return NewExcelGenerator(), nil
	case domain.FormatPDF:
		return NewPDFGenerator(), nil
	default:
		return nil, apperror.Newf(apperror.CodeInvalidInput, "unknown report format %q, supported: %s",
			format, strings.Join(domain.SupportedFormats, ", ")).WithField("format")
	}
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct{}

// GetTitle возвращает заголовок отчёта
func (b *BaseGenerator) GetTitle(data *Data) string {
	if data.Title != "" {
		return data.Title
	}
	if data.Problem != nil && data.Problem.Name != "" {
		return fmt.Sprintf("Min-Cost Flow Report: %s", data.Problem.Name)
	}
	return "Min-Cost Flow Report"
}

// GetAuthor возвращает автора отчёта
func (b *BaseGenerator) GetAuthor(data *Data) string {
	if data.Author != "" {
		return data.Author
	}
	return "kflow"
}

// GetDecimals возвращает точность средней стоимости
func (b *BaseGenerator) GetDecimals(data *Data) int {
	if data.Decimals <= 0 {
		return DefaultDecimals
	}
	return data.Decimals
}

// GeneratedAt возвращает время генерации
func (b *BaseGenerator) GeneratedAt(data *Data) time.Time {
	if data.GeneratedAt.IsZero() {
		return time.Now()
	}
	return data.GeneratedAt
}

// FormatFloat форматирует число с заданной точностью
func (b *BaseGenerator) FormatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// FormatAverage форматирует среднюю стоимость с точностью отчёта
func (b *BaseGenerator) FormatAverage(data *Data) string {
	return b.FormatFloat(data.Solution.AverageCost, b.GetDecimals(data))
}

// FormatDuration форматирует длительность
func (b *BaseGenerator) FormatDuration(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000
	if ms < 1000 {
		return fmt.Sprintf("%.2f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

// FormatTimestamp форматирует время
func (b *BaseGenerator) FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// JoinInts соединяет числа через sep
func JoinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

// validate проверяет входные данные генератора
func validate(data *Data) error {
	if data == nil || data.Solution == nil {
		return apperror.New(apperror.CodeReport, "report requires a solution")
	}
	return nil
}

// ColName преобразует индекс колонки в буквенное обозначение (0 -> A, 25 -> Z, 26 -> AA)
func ColName(index int) string {
	result := ""
	for {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}

// CellByIndex возвращает адрес ячейки по индексам
func CellByIndex(colIndex, rowIndex int) string {
	return fmt.Sprintf("%s%d", ColName(colIndex), rowIndex)
}
