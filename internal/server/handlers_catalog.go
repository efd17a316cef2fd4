package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kdrama_recommend/internal/logger"
	"kdrama_recommend/internal/metrics"
	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/recommend"
	"kdrama_recommend/internal/similarity"
	"kdrama_recommend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// ReloadSummary 目录重新加载的结果
type ReloadSummary struct {
	Version    int64    `json:"version"`
	Items      int      `json:"items"`
	Vocabulary int      `json:"vocabulary"`
	Skipped    []string `json:"skipped,omitempty"`
}

// LoadCatalog 重新加载目录并记录日志与指标
func LoadCatalog(ctx context.Context, e *recommend.Engine) (*ReloadSummary, error) {
	start := time.Now()
	snap, err := e.Reload(ctx)
	if err != nil {
		metrics.RecordCatalogLoad(false, 0, 0, 0)
		logger.Error("Catalog load failed: %v", err)
		return nil, err
	}

	summary := &ReloadSummary{
		Version:    snap.Version,
		Items:      snap.Catalog.Len(),
		Vocabulary: snap.Vocabulary.Len(),
	}
	for _, w := range snap.Warnings {
		logger.Warn("Catalog load: %s", w)
		summary.Skipped = append(summary.Skipped, w.String())
	}
	metrics.RecordCatalogLoad(true, summary.Items, len(snap.Warnings), summary.Vocabulary)
	logger.Info("Catalog v%d loaded: %d items, %d terms, %d rows skipped in %s",
		summary.Version, summary.Items, summary.Vocabulary, len(snap.Warnings), time.Since(start))
	return summary, nil
}

// handleFindItems GET /api/v1/items?name=
func (s *Server) handleFindItems(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	// 同一快照内完成解析和取值
	snap, err := s.catalog.Snapshot()
	if err != nil {
		abortWithError(c, err)
		return
	}
	ids := snap.Catalog.ResolveIdentifier(name)
	items := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		it, err := snap.Catalog.Item(id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		items = append(items, it)
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids, "items": items})
}

// handleGetItem GET /api/v1/items/:id
func (s *Server) handleGetItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	it, err := s.catalog.Item(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// handleGenres GET /api/v1/genres
func (s *Server) handleGenres(c *gin.Context) {
	genres, err := s.catalog.Genres()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// handleTrending GET /api/v1/trending?limit=
func (s *Server) handleTrending(c *gin.Context) {
	n := defaultTrending
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			abortWithError(c, fmt.Errorf("%w: %q", similarity.ErrInvalidLimit, v))
			return
		}
		n = parsed
	}
	items, err := s.catalog.Trending(n)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RecommendRequest 推荐请求体，trending 等场景不需要 seed
type RecommendRequest struct {
	Seed  string `json:"seed"`
	Genre string `json:"genre"`
	Limit int    `json:"limit"`
}

// handleRecommend 处理推荐请求
// POST /api/v1/recommend/:scene
func (s *Server) handleRecommend(c *gin.Context) {
	scene := c.Param("scene")

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Limit < 0 {
		abortWithError(c, fmt.Errorf("%w: %d", similarity.ErrInvalidLimit, req.Limit))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sceneTimeout)
	defer cancel()

	wfCtx := workflow.NewContext(ctx, currentUser(c), workflow.Query{
		Seed:  req.Seed,
		Genre: req.Genre,
		Limit: req.Limit,
	})
	wfCtx.Config["scene"] = scene

	start := time.Now()
	err := s.scenes.Run(wfCtx, scene)
	metrics.RecommendDuration.WithLabelValues(scene).Observe(time.Since(start).Seconds())
	for _, line := range wfCtx.Logs() {
		logger.Debug("[%s] %s", scene, line)
	}
	if err != nil {
		metrics.RecommendRequests.WithLabelValues(scene, strconv.Itoa(statusFor(err))).Inc()
		abortWithError(c, err)
		return
	}
	metrics.RecommendRequests.WithLabelValues(scene, "200").Inc()

	c.JSON(http.StatusOK, gin.H{
		"scene": scene,
		"seed":  req.Seed,
		"items": wfCtx.GetCandidates(),
	})
}

// handleReload POST /api/v1/catalog/reload
// 异步执行，返回任务 ID
func (s *Server) handleReload(c *gin.Context) {
	t := s.tasks.Submit(context.Background(), "catalog_reload", func(ctx context.Context) (interface{}, error) {
		summary, err := LoadCatalog(ctx, s.catalog)
		if err != nil {
			return nil, err
		}
		return summary, nil
	})
	c.JSON(http.StatusAccepted, gin.H{"task_id": t.ID, "status": t.Status})
}

// handleGetTask GET /api/v1/tasks/:id
func (s *Server) handleGetTask(c *gin.Context) {
	t, err := s.tasks.GetTask(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
