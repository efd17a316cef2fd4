// Package recommend 持有当前目录快照，并基于它回答推荐和查询请求。
//
// 快照包含目录以及由它得到的词表和相似度矩阵。Reload 构建完整的新快照，
// 通过一次原子指针替换发布：正在执行的查询继续使用旧快照，新查询看到新快照，
// 快照发布后不再修改。
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"kdrama_recommend/internal/catalog"
	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/similarity"
)

// Snapshot 一次完整加载得到的不可变快照
type Snapshot struct {
	Catalog     *catalog.Store
	Vocabulary  *similarity.Vocabulary
	Matrix      *similarity.Matrix
	Recommender *similarity.Recommender
	Warnings    []catalog.Warning
	Version     int64
	LoadedAt    time.Time
}

// Build 由加载的记录构建快照
// 缺少属性的行被跳过并列入 Warnings，没有合法行时返回 similarity.ErrEmptyCorpus
func Build(records []model.Item) (*Snapshot, error) {
	store, warnings := catalog.NewStore(records)

	sigs, err := similarity.BuildSignatures(store.Items())
	if err != nil {
		return nil, fmt.Errorf("build signatures: %w", err)
	}
	vocab, counts, err := similarity.FitTransform(sigs)
	if err != nil {
		return nil, fmt.Errorf("vectorize catalog: %w", err)
	}
	matrix := similarity.ComputeSimilarity(counts)
	rec, err := similarity.NewRecommender(store, matrix)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Catalog:     store,
		Vocabulary:  vocab,
		Matrix:      matrix,
		Recommender: rec,
		Warnings:    warnings,
		LoadedAt:    time.Now(),
	}, nil
}

type state struct {
	snap *Snapshot
	err  error // snap 为 nil 时不可用的原因
}

// Engine 使用最近发布的快照处理查询
type Engine struct {
	loader  catalog.Loader
	current atomic.Pointer[state]
	reload  sync.Mutex
	version int64
}

// NewEngine 创建没有目录的引擎，Reload 成功前所有查询返回 catalog.ErrCatalogUnavailable
func NewEngine(loader catalog.Loader) *Engine {
	e := &Engine{loader: loader}
	e.current.Store(&state{err: errors.New("catalog not loaded")})
	return e
}

// Reload 加载目录、构建新快照并替换
// 失败时引擎在下次成功加载前不可用，返回的错误同时包装
// catalog.ErrCatalogUnavailable 和原始原因
func (e *Engine) Reload(ctx context.Context) (*Snapshot, error) {
	e.reload.Lock()
	defer e.reload.Unlock()

	records, err := e.loader.Load(ctx)
	if err == nil {
		var snap *Snapshot
		snap, err = Build(records)
		if err == nil {
			e.version++
			snap.Version = e.version
			e.current.Store(&state{snap: snap})
			return snap, nil
		}
	}

	if !errors.Is(err, catalog.ErrCatalogUnavailable) {
		err = fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, err)
	}
	e.current.Store(&state{err: err})
	return nil, err
}

// Snapshot 返回已发布的快照
func (e *Engine) Snapshot() (*Snapshot, error) {
	st := e.current.Load()
	if st.snap == nil {
		if errors.Is(st.err, catalog.ErrCatalogUnavailable) {
			return nil, st.err
		}
		return nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, st.err)
	}
	return st.snap, nil
}

// Recommend 返回与 seed 相似的条目，见 similarity.Recommender
func (e *Engine) Recommend(seed int, filter similarity.Filter, limit int) ([]model.Recommendation, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Recommender.Recommend(seed, filter, limit)
}

// RecommendByName 以第一个名称匹配的条目为种子
func (e *Engine) RecommendByName(name string, filter similarity.Filter, limit int) ([]model.Recommendation, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	seed, err := snap.Catalog.ResolveFirst(name)
	if err != nil {
		return nil, err
	}
	return snap.Recommender.Recommend(seed, filter, limit)
}

// ResolveIdentifier 返回名称匹配的全部 ID
func (e *Engine) ResolveIdentifier(name string) ([]int, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.ResolveIdentifier(name), nil
}

// ResolveName 返回 id 对应的名称
func (e *Engine) ResolveName(id int) (string, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return "", err
	}
	return snap.Catalog.ResolveName(id)
}

// Item 返回 id 对应的条目
func (e *Engine) Item(id int) (model.Item, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return model.Item{}, err
	}
	return snap.Catalog.Item(id)
}

// Trending 返回最新的 n 个条目
func (e *Engine) Trending(n int) ([]model.Item, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Trending(n), nil
}

// Genres 返回目录中去重后的类型标签
func (e *Engine) Genres() ([]string, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Catalog.Genres(), nil
}
