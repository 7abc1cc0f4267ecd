package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"kflow/pkg/domain"
)

// ProblemHash вычисляет sha256 канонического представления задачи.
// Порядок рёбер входит в хеш: номера рёбер в ответе зависят от него.
func ProblemHash(p *domain.Problem) string {
	if p == nil {
		return ""
	}

	h := sha256.New()
	var buf [8]byte
	write := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	write(int64(p.Mode))
	write(int64(p.VertexCount))
	write(int64(p.K))
	write(int64(p.Source))
	write(int64(p.Sink))
	write(int64(len(p.Edges)))
	for _, e := range p.Edges {
		write(int64(e.From))
		write(int64(e.To))
		write(e.Cost)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// BuildSolveKey строит ключ кэша для решения: solve:<mode>:<hash>
func BuildSolveKey(mode domain.EdgeMode, problemHash string) string {
	return fmt.Sprintf("solve:%s:%s", mode, problemHash)
}
