package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSimilarityKnownValues(t *testing.T) {
	_, m, err := FitTransform([]string{
		"drama life",
		"drama thriller",
		"drama life",
	})
	require.NoError(t, err)

	s := ComputeSimilarity(m)
	require.Equal(t, 3, s.Size())

	assert.InDelta(t, 1.0, s.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, s.At(0, 1), 1e-12)
	assert.InDelta(t, 1.0, s.At(0, 2), 1e-12)
	assert.Equal(t, s.At(0, 1), s.At(1, 0))
	assert.Len(t, s.Row(1), 3)
}

func TestComputeSimilarityZeroVector(t *testing.T) {
	// 单字符 token 全部被丢弃，第一行成为零向量
	_, m, err := FitTransform([]string{"a b c", "hello world"})
	require.NoError(t, err)

	s := ComputeSimilarity(m)
	for j := 0; j < 2; j++ {
		assert.Equal(t, 0.0, s.At(0, j))
		assert.Equal(t, 0.0, s.At(j, 0))
		assert.False(t, math.IsNaN(s.At(0, j)))
	}
	assert.InDelta(t, 1.0, s.At(1, 1), 1e-12)
}

func TestComputeSimilarityProperties(t *testing.T) {
	rec, _ := buildRecommender(t, sampleItems())
	s := rec.matrix
	n := s.Size()

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.Equal(t, s.At(i, j), s.At(j, i), "symmetry (%d,%d)", i, j)
			assert.GreaterOrEqual(t, s.At(i, i), s.At(i, j), "self-similarity dominance (%d,%d)", i, j)
			assert.GreaterOrEqual(t, s.At(i, j), 0.0)
		}
	}
}
