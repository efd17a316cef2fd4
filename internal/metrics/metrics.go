// Package metrics 定义推荐服务的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendRequests 按场景和结果统计场景执行次数
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kdrama_recommend_requests_total",
			Help: "Recommendation scene executions by scene and status",
		},
		[]string{"scene", "status"},
	)

	// RecommendDuration 场景执行耗时
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kdrama_recommend_duration_seconds",
			Help:    "Recommendation scene execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scene"},
	)

	// CatalogLoads 按结果统计目录加载次数
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kdrama_catalog_loads_total",
			Help: "Catalog reloads by result",
		},
		[]string{"result"},
	)

	// CatalogItems 已发布目录的条目数
	CatalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kdrama_catalog_items",
		Help: "Number of items in the published catalog",
	})

	// CatalogSkippedRows 上次加载跳过的行数
	CatalogSkippedRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kdrama_catalog_skipped_rows",
		Help: "Rows skipped by the last catalog load because of missing attributes",
	})

	// CatalogVocabulary 已发布目录的词表大小
	CatalogVocabulary = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kdrama_catalog_vocabulary_terms",
		Help: "Vocabulary size of the published catalog",
	})

	// OMDbLookups 按结果统计 IMDb ID 查询次数
	OMDbLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kdrama_omdb_lookups_total",
			Help: "OMDb IMDb ID lookups by result",
		},
		[]string{"result"},
	)
)

// RecordCatalogLoad 目录加载后更新相关指标
func RecordCatalogLoad(ok bool, items, skipped, vocabulary int) {
	if !ok {
		CatalogLoads.WithLabelValues("error").Inc()
		CatalogItems.Set(0)
		return
	}
	CatalogLoads.WithLabelValues("success").Inc()
	CatalogItems.Set(float64(items))
	CatalogSkippedRows.Set(float64(skipped))
	CatalogVocabulary.Set(float64(vocabulary))
}
