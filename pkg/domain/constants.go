package domain

import (
	"fmt"
	"math"
	"strings"
)

// Сентинелы таблиц расстояний
const (
	Infinity int64 = math.MaxInt64
	NoEdge         = -1
)

// UnitCapacity пропускная способность одного входного ребра
const UnitCapacity int64 = 1

// Число внутренних записей рёбер на одну входную строку
const (
	UndirectedStride = 4
	DirectedStride   = 2
)

// EdgeMode способ разворачивания входного ребра
type EdgeMode int

const (
	// ModeUndirected каждая строка даёт два направленных ребра (u→v и v→u)
	ModeUndirected EdgeMode = iota
	// ModeDirected каждая строка даёт одно направленное ребро u→v
	ModeDirected
)

// String возвращает строковое представление режима
func (m EdgeMode) String() string {
	switch m {
	case ModeDirected:
		return "directed"
	default:
		return "undirected"
	}
}

// Stride возвращает число внутренних записей на входную строку
func (m EdgeMode) Stride() int {
	if m == ModeDirected {
		return DirectedStride
	}
	return UndirectedStride
}

// ParseEdgeMode разбирает режим из строки
func ParseEdgeMode(s string) (EdgeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "undirected":
		return ModeUndirected, nil
	case "directed":
		return ModeDirected, nil
	default:
		return ModeUndirected, fmt.Errorf("unknown edge mode %q", s)
	}
}

// Форматы отчётов
const (
	FormatText     = "text"
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatXLSX     = "xlsx"
	FormatPDF      = "pdf"
)

// SupportedFormats все поддерживаемые форматы отчётов
var SupportedFormats = []string{
	FormatText,
	FormatTable,
	FormatJSON,
	FormatCSV,
	FormatMarkdown,
	FormatXLSX,
	FormatPDF,
}

// IsSupportedFormat проверяет формат отчёта
func IsSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// IsInfinite проверяет, является ли расстояние бесконечным
func IsInfinite(d int64) bool {
	return d == Infinity
}

// AddDistance складывает расстояния, сохраняя Infinity
func AddDistance(a, b int64) int64 {
	if a == Infinity || b == Infinity {
		return Infinity
	}
	return a + b
}
