package nodes

import (
	"fmt"
	"sort"

	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/workflow"
)

type SimpleRankNode struct {
	name   string
	limit  int
	order  string         // "desc", "asc", "none"
	quotas map[string]int // 召回源 -> 在结果中保留的名额
}

// NewSimpleRankNode 工厂函数
// 配置: limit (请求中的 limit 优先), order, quotas ({"trending": 3})
func NewSimpleRankNode(cfg workflow.NodeConfig) (workflow.Node, error) {
	limit, _ := cfg.Config["limit"].(float64)
	order, _ := cfg.Config["order"].(string)

	switch order {
	case "":
		order = "desc"
	case "desc", "asc", "none":
	default:
		return nil, fmt.Errorf("node '%s': unknown order %q", cfg.Name, order)
	}

	quotas := make(map[string]int)
	if raw, ok := cfg.Config["quotas"].(map[string]interface{}); ok {
		for source, v := range raw {
			q, ok := v.(float64)
			if !ok || q < 0 {
				return nil, fmt.Errorf("node '%s': invalid quota for %q", cfg.Name, source)
			}
			quotas[source] = int(q)
		}
	}

	return &SimpleRankNode{
		name:   cfg.Name,
		limit:  int(limit),
		order:  order,
		quotas: quotas,
	}, nil
}

func (n *SimpleRankNode) Name() string { return n.name }
func (n *SimpleRankNode) Type() string { return "rank" }

func (n *SimpleRankNode) Execute(ctx *workflow.Context) error {
	candidates := ctx.GetCandidates()
	if len(candidates) == 0 {
		return nil
	}

	// 排序逻辑，分数相同时按条目 ID 升序
	switch n.order {
	case "desc":
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Score != candidates[j].Score {
				return candidates[i].Score > candidates[j].Score
			}
			return candidates[i].Item.ID < candidates[j].Item.ID
		})
	case "asc":
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Score != candidates[j].Score {
				return candidates[i].Score < candidates[j].Score
			}
			return candidates[i].Item.ID < candidates[j].Item.ID
		})
	}

	// 多路召回可能包含重复条目，保留排序后的第一次出现
	seen := make(map[int]struct{}, len(candidates))
	result := make([]*model.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Item.ID]; dup {
			continue
		}
		seen[c.Item.ID] = struct{}{}
		result = append(result, c)
	}

	limit := n.limit
	if ctx.Query.Limit > 0 {
		limit = ctx.Query.Limit
	}
	if limit > 0 && len(result) > limit {
		result = n.truncate(ctx, result, limit)
	}

	for i, c := range result {
		c.Rank = i + 1
	}

	ctx.UpdateCandidates(result)
	ctx.AddLog(fmt.Sprintf("Rank (%s) completed. Strategy: %s, Result count: %d", n.name, n.order, len(result)))

	return nil
}

// truncate 截断到 limit 个，先按召回顺序为每个配额源保留名额，其余名额按排序填充
// 因配额才进入结果的条目，Source 标记为对应的召回源
func (n *SimpleRankNode) truncate(ctx *workflow.Context, result []*model.Recommendation, limit int) []*model.Recommendation {
	position := make(map[int]int, len(result))
	for i, c := range result {
		position[c.Item.ID] = i
	}

	sources := make([]string, 0, len(n.quotas))
	for source := range n.quotas {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	reserved := make(map[int]string)
	for _, source := range sources {
		need := n.quotas[source]
		for _, rec := range ctx.RecallResult(source) {
			if need == 0 || len(reserved) == limit {
				break
			}
			i, ok := position[rec.Item.ID]
			if !ok {
				continue
			}
			if _, taken := reserved[i]; taken {
				continue
			}
			reserved[i] = source
			need--
		}
	}

	free := limit - len(reserved)
	out := make([]*model.Recommendation, 0, limit)
	for i, c := range result {
		source, isReserved := reserved[i]
		switch {
		case isReserved:
			if i >= limit && c.Source != source {
				cp := *c
				cp.Source = source
				c = &cp
			}
		case free > 0:
			free--
		default:
			continue
		}
		out = append(out, c)
	}
	return out
}
