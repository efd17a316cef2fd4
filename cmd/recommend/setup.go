package main

import (
	"kdrama_recommend/internal/nodes"
	"kdrama_recommend/internal/profile"
	"kdrama_recommend/internal/workflow"
)

// RegisterNodes 注册所有可用的 Workflow 节点
func RegisterNodes(rec nodes.Recommender, profiles profile.Store) *workflow.Registry {
	registry := workflow.NewRegistry()

	// 召回 (使用闭包注入依赖)
	registry.Register("recall_content", func(cfg workflow.NodeConfig) (workflow.Node, error) {
		return nodes.NewContentRecallNode(cfg, rec, profiles)
	})
	registry.Register("recall_trending", func(cfg workflow.NodeConfig) (workflow.Node, error) {
		return nodes.NewTrendingRecallNode(cfg, rec)
	})

	// 过滤
	registry.Register("filter_watchlist", func(cfg workflow.NodeConfig) (workflow.Node, error) {
		return nodes.NewWatchlistFilterNode(cfg, profiles)
	})
	registry.Register("filter_rated", func(cfg workflow.NodeConfig) (workflow.Node, error) {
		return nodes.NewRatedFilterNode(cfg, profiles)
	})

	// 排序
	registry.Register("rank_simple", nodes.NewSimpleRankNode)

	return registry
}
