package nodes

import (
	"fmt"

	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/profile"
	"kdrama_recommend/internal/workflow"
)

// WatchlistFilterNode 过滤用户收藏列表中已有的剧集
type WatchlistFilterNode struct {
	name  string
	store profile.Store
}

func NewWatchlistFilterNode(cfg workflow.NodeConfig, store profile.Store) (workflow.Node, error) {
	return &WatchlistFilterNode{
		name:  cfg.Name,
		store: store,
	}, nil
}

func (n *WatchlistFilterNode) Name() string { return n.name }
func (n *WatchlistFilterNode) Type() string { return "filter" }

func (n *WatchlistFilterNode) Execute(ctx *workflow.Context) error {
	candidates := ctx.GetCandidates()
	if len(candidates) == 0 || ctx.UserID == "" {
		return nil
	}

	watchlist, err := n.store.Watchlist(ctx.UserID)
	if err != nil {
		// 策略：记录日志，降级为不过滤
		ctx.AddLog(fmt.Sprintf("Failed to get watchlist: %v", err))
		return nil
	}

	// 构建收藏 Set
	watchSet := make(map[string]struct{}, len(watchlist))
	for _, name := range watchlist {
		watchSet[name] = struct{}{}
	}

	var kept []*model.Recommendation
	filteredCount := 0

	for _, rec := range candidates {
		if _, exists := watchSet[rec.Item.Name]; !exists {
			kept = append(kept, rec)
		} else {
			filteredCount++
		}
	}

	ctx.UpdateCandidates(kept)
	ctx.AddLog(fmt.Sprintf("Watchlist filter (%s) removed %d items, kept %d", n.name, filteredCount, len(kept)))
	return nil
}
