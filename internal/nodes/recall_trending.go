package nodes

import (
	"fmt"
	"strings"

	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/workflow"
)

// TrendingRecallNode 召回最新发行的剧集
type TrendingRecallNode struct {
	name  string
	rec   Recommender
	count int
}

func NewTrendingRecallNode(cfg workflow.NodeConfig, rec Recommender) (workflow.Node, error) {
	return &TrendingRecallNode{
		name:  cfg.Name,
		rec:   rec,
		count: intConfig(cfg.Config, "count", 10),
	}, nil
}

func (n *TrendingRecallNode) Name() string { return n.name }
func (n *TrendingRecallNode) Type() string { return "recall" }

func (n *TrendingRecallNode) Execute(ctx *workflow.Context) error {
	// 多取一条，用于补上被排除的种子剧集
	items, err := n.rec.Trending(n.count + 1)
	if err != nil {
		// 目录不可用
		return workflow.Abort(n.name, err)
	}

	recs := make([]*model.Recommendation, 0, n.count)
	for _, it := range items {
		if len(recs) == n.count {
			break
		}
		if ctx.Query.Seed != "" && strings.EqualFold(it.Name, ctx.Query.Seed) {
			continue
		}
		recs = append(recs, &model.Recommendation{Item: it, Rank: len(recs) + 1, Source: n.name})
	}

	ctx.SetRecallResult(n.name, recs)
	ctx.AddLog(fmt.Sprintf("Trending recall (%s) returned %d items", n.name, len(recs)))
	return nil
}
