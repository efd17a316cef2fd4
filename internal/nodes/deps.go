package nodes

import (
	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/similarity"
)

// Recommender 内容相似度推荐能力 (由 recommend.Engine 实现)
type Recommender interface {
	RecommendByName(name string, filter similarity.Filter, limit int) ([]model.Recommendation, error)
	Trending(n int) ([]model.Item, error)
}

// intConfig 读取 JSON 数字配置 (解析后为 float64)
func intConfig(cfg map[string]interface{}, key string, def int) int {
	if v, ok := cfg[key].(float64); ok && v > 0 {
		return int(v)
	}
	return def
}

func toPointers(recs []model.Recommendation, source string) []*model.Recommendation {
	out := make([]*model.Recommendation, len(recs))
	for i := range recs {
		r := recs[i]
		r.Source = source
		out[i] = &r
	}
	return out
}
