package model

// Recommendation 一次查询产生的推荐结果，不持久化
type Recommendation struct {
	Item   Item    `json:"item"`
	Score  float64 `json:"score"`            // 与种子条目的相似度
	Rank   int     `json:"rank"`             // 从 1 开始
	Source string  `json:"source,omitempty"` // 召回源标记 (e.g., "content", "trending")
}
