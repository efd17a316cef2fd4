package similarity

import "math"

// Matrix 以条目 ID 为下标的稠密对称 N×N 相似度矩阵
// ComputeSimilarity 返回后不再修改
type Matrix struct {
	n    int
	data []float64
}

// Size 返回 N
func (s *Matrix) Size() int { return s.n }

// At 返回 sim(i, j)
func (s *Matrix) At(i, j int) float64 { return s.data[i*s.n+j] }

// Row 返回第 i 行的副本
func (s *Matrix) Row(i int) []float64 {
	out := make([]float64, s.n)
	copy(out, s.data[i*s.n:(i+1)*s.n])
	return out
}

// ComputeSimilarity 计算所有行两两之间 (含对角线) 的余弦相似度
// 全零行与任何行的相似度都是 0，只计算上三角，下三角镜像复制
func ComputeSimilarity(m *CountMatrix) *Matrix {
	n := m.Rows()
	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		norms[i] = math.Sqrt(float64(dot(m.rows[i], m.rows[i])))
	}

	s := &Matrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var v float64
			if norms[i] > 0 && norms[j] > 0 {
				v = float64(dot(m.rows[i], m.rows[j])) / (norms[i] * norms[j])
			}
			s.data[i*n+j] = v
			s.data[j*n+i] = v
		}
	}
	return s
}

// dot 两个按列排序的稀疏行的点积
func dot(a, b []Entry) int {
	var sum, i, j int
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Col == b[j].Col:
			sum += a[i].Count * b[j].Count
			i++
			j++
		case a[i].Col < b[j].Col:
			i++
		default:
			j++
		}
	}
	return sum
}
