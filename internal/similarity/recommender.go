package similarity

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"

	"kdrama_recommend/internal/catalog"
	"kdrama_recommend/internal/model"
)

// ErrInvalidLimit 结果数量上限不是正数
var ErrInvalidLimit = errors.New("limit must be positive")

// Recommender 按与种子条目的相似度对目录排序，只读目录和矩阵
type Recommender struct {
	store  *catalog.Store
	matrix *Matrix
}

// NewRecommender 组合目录和由它计算出的矩阵
func NewRecommender(store *catalog.Store, matrix *Matrix) (*Recommender, error) {
	if store.Len() != matrix.Size() {
		return nil, fmt.Errorf("matrix size %d does not match catalog size %d", matrix.Size(), store.Len())
	}
	return &Recommender{store: store, matrix: matrix}, nil
}

type candidate struct {
	id    int
	score float64
}

// ranked 返回种子以外的全部条目，分数降序，分数相同按 ID 升序
func (r *Recommender) ranked(seed int) []candidate {
	n := r.matrix.Size()
	out := make([]candidate, 0, n)
	for id := 0; id < n; id++ {
		if id == seed {
			continue
		}
		out = append(out, candidate{id: id, score: r.matrix.At(seed, id)})
	}
	slices.SortFunc(out, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return out
}

// Recommendations 返回惰性序列，产出最多 limit 个通过 filter 的相似条目
// 序列可以重复遍历，每次结果相同；候选耗尽时结果少于 limit
func (r *Recommender) Recommendations(seed int, filter Filter, limit int) (iter.Seq[model.Recommendation], error) {
	if _, err := r.store.Item(seed); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	return func(yield func(model.Recommendation) bool) {
		rank := 0
		for _, c := range r.ranked(seed) {
			it, _ := r.store.Item(c.id)
			if !filter.accept(it) {
				continue
			}
			rank++
			if !yield(model.Recommendation{Item: it, Score: c.score, Rank: rank}) {
				return
			}
			if rank == limit {
				return
			}
		}
	}, nil
}

// Recommend 将 Recommendations 收集为切片
func (r *Recommender) Recommend(seed int, filter Filter, limit int) ([]model.Recommendation, error) {
	seq, err := r.Recommendations(seed, filter, limit)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// Similarity 返回 sim(a, b)
func (r *Recommender) Similarity(a, b int) (float64, error) {
	if _, err := r.store.Item(a); err != nil {
		return 0, err
	}
	if _, err := r.store.Item(b); err != nil {
		return 0, err
	}
	return r.matrix.At(a, b), nil
}
