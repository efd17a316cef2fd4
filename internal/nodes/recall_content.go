package nodes

import (
	"errors"
	"fmt"

	"kdrama_recommend/internal/profile"
	"kdrama_recommend/internal/similarity"
	"kdrama_recommend/internal/workflow"
)

// ErrMissingSeed 请求中没有种子剧集
var ErrMissingSeed = errors.New("seed item is required")

// ContentRecallNode 基于内容相似度的召回
type ContentRecallNode struct {
	name             string
	rec              Recommender
	store            profile.Store
	count            int
	excludeWatchlist bool
}

// NewContentRecallNode 工厂函数
// 配置: count (默认 10), exclude_watchlist (默认 false)
func NewContentRecallNode(cfg workflow.NodeConfig, rec Recommender, store profile.Store) (workflow.Node, error) {
	exclude, _ := cfg.Config["exclude_watchlist"].(bool)
	if exclude && store == nil {
		return nil, fmt.Errorf("node '%s': exclude_watchlist requires a profile store", cfg.Name)
	}
	return &ContentRecallNode{
		name:             cfg.Name,
		rec:              rec,
		store:            store,
		count:            intConfig(cfg.Config, "count", 10),
		excludeWatchlist: exclude,
	}, nil
}

func (n *ContentRecallNode) Name() string { return n.name }
func (n *ContentRecallNode) Type() string { return "recall" }

// Execute 种子缺失、不存在或目录不可用时中止整个流程，
// 即使位于 parallel 节点内也不会被其他召回的成功掩盖
func (n *ContentRecallNode) Execute(ctx *workflow.Context) error {
	if ctx.Query.Seed == "" {
		return workflow.Abort(n.name, ErrMissingSeed)
	}

	limit := n.count
	if ctx.Query.Limit > 0 {
		limit = ctx.Query.Limit
	}

	filter := similarity.GenreFilter(ctx.Query.Genre)
	if n.excludeWatchlist && ctx.UserID != "" {
		watchlist, err := n.store.Watchlist(ctx.UserID)
		if err != nil {
			// 收藏获取失败时降级为不排除
			ctx.AddLog(fmt.Sprintf("Failed to get watchlist: %v", err))
		} else {
			filter = similarity.AllOf(filter, similarity.ExcludeNames(watchlist))
		}
	}

	recs, err := n.rec.RecommendByName(ctx.Query.Seed, filter, limit)
	if err != nil {
		return workflow.Abort(n.name, err)
	}

	ctx.SetRecallResult(n.name, toPointers(recs, n.name))
	ctx.AddLog(fmt.Sprintf("Content recall (%s) seed=%q genre=%q returned %d items", n.name, ctx.Query.Seed, ctx.Query.Genre, len(recs)))
	return nil
}
