package nodes

import (
	"fmt"

	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/profile"
	"kdrama_recommend/internal/workflow"
)

// RatedFilterNode 过滤用户已经评分过的剧集
type RatedFilterNode struct {
	name  string
	store profile.Store
}

// NewRatedFilterNode 工厂函数
func NewRatedFilterNode(cfg workflow.NodeConfig, store profile.Store) (workflow.Node, error) {
	return &RatedFilterNode{
		name:  cfg.Name,
		store: store,
	}, nil
}

func (n *RatedFilterNode) Name() string { return n.name }
func (n *RatedFilterNode) Type() string { return "filter" }

func (n *RatedFilterNode) Execute(ctx *workflow.Context) error {
	candidates := ctx.GetCandidates()
	if len(candidates) == 0 || ctx.UserID == "" {
		return nil
	}

	ratings, err := n.store.Ratings(ctx.UserID)
	if err != nil {
		// 评分获取失败不阻断流程
		ctx.AddLog(fmt.Sprintf("Failed to get ratings: %v", err))
		return nil
	}

	var kept []*model.Recommendation
	filteredCount := 0
	for _, rec := range candidates {
		if _, rated := ratings[rec.Item.Name]; !rated {
			kept = append(kept, rec)
		} else {
			filteredCount++
		}
	}

	ctx.UpdateCandidates(kept)
	ctx.AddLog(fmt.Sprintf("Rated filter (%s) removed %d items, kept %d", n.name, filteredCount, len(kept)))

	return nil
}
