package domain

import "math"

// Пределы размера задачи
const (
	MaxVertices = 1 << 24
	MaxEdges    = 1 << 26
	MaxDemand   = MaxEdges
)

// costHeadroom запас, с которым сумма стоимостей вдоль любого пути,
// потенциалы и приведённые длины остаются строго меньше Infinity
const costHeadroom = 8

// MaxAbsCost возвращает наибольший допустимый модуль стоимости ребра
// для сети из n вершин и m рёбер.
// Любая простая цепь короче n рёбер, весь поток проходит не более чем
// по 2m внутренним рёбрам, поэтому |cost| * 8 * (n + m) <= MaxInt64
// исключает переполнение и совпадение длины пути с Infinity.
func MaxAbsCost(n, m int) int64 {
	if n < 1 {
		n = 1
	}
	if m < 1 {
		m = 1
	}
	if n > MaxVertices {
		n = MaxVertices
	}
	if m > MaxEdges {
		m = MaxEdges
	}
	return math.MaxInt64 / (costHeadroom * (int64(n) + int64(m)))
}

// CostInRange проверяет, что стоимость укладывается в MaxAbsCost(n, m)
func CostInRange(cost int64, n, m int) bool {
	limit := MaxAbsCost(n, m)
	return cost >= -limit && cost <= limit
}
