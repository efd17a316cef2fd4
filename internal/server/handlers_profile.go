package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"kdrama_recommend/internal/catalog"
	"kdrama_recommend/internal/logger"
	"kdrama_recommend/internal/metrics"
	"kdrama_recommend/internal/user"
	"kdrama_recommend/pkg/omdb"

	"github.com/gin-gonic/gin"
)

// handleRegister POST /api/v1/register
func (s *Server) handleRegister(c *gin.Context) {
	var req user.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	u, err := s.users.Register(req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Info("Registered user %s", u.ID)
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": u.Token})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin POST /api/v1/login
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	u, err := s.users.Login(req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": u.Token})
}

// WatchlistEntry 收藏条目，IMDbURL 在查询失败时为空
type WatchlistEntry struct {
	Name    string `json:"name"`
	IMDbURL string `json:"imdb_url,omitempty"`
}

// handleWatchlist GET /api/v1/watchlist
func (s *Server) handleWatchlist(c *gin.Context) {
	u := currentUser(c)
	names, err := s.profiles.Watchlist(u.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	entries := make([]WatchlistEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, WatchlistEntry{
			Name:    name,
			IMDbURL: s.imdbURL(c.Request.Context(), name),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// imdbURL 查询失败不影响请求，只记录指标和日志
func (s *Server) imdbURL(ctx context.Context, name string) string {
	if s.imdb == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	id, err := s.imdb.LookupIMDbID(ctx, name)
	switch {
	case err == nil:
		metrics.OMDbLookups.WithLabelValues("found").Inc()
		return omdb.IMDbURL(id)
	case errors.Is(err, omdb.ErrNotFound):
		metrics.OMDbLookups.WithLabelValues("not_found").Inc()
	default:
		metrics.OMDbLookups.WithLabelValues("error").Inc()
		logger.Debug("IMDb lookup for %q failed: %v", name, err)
	}
	return ""
}

type watchlistRequest struct {
	Name string `json:"name" binding:"required"`
}

// handleAddWatchlist POST /api/v1/watchlist
// 只能收藏目录中存在的剧集
func (s *Server) handleAddWatchlist(c *gin.Context) {
	var req watchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ids, err := s.catalog.ResolveIdentifier(req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(ids) == 0 {
		abortWithError(c, fmt.Errorf("%w: %q", catalog.ErrUnknownItem, req.Name))
		return
	}
	// 使用目录中的规范名称
	name, err := s.catalog.ResolveName(ids[0])
	if err != nil {
		abortWithError(c, err)
		return
	}

	added, err := s.profiles.AddToWatchlist(currentUser(c).ID, name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"name": name, "added": added})
}

// handleRemoveWatchlist DELETE /api/v1/watchlist?name=
func (s *Server) handleRemoveWatchlist(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}
	removed, err := s.profiles.RemoveFromWatchlist(currentUser(c).ID, name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "removed": removed})
}

// handleRatings GET /api/v1/ratings
func (s *Server) handleRatings(c *gin.Context) {
	u := currentUser(c)
	ratings, err := s.profiles.Ratings(u.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	resp := gin.H{"ratings": ratings}
	avg, ok, err := s.profiles.AverageRating(u.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if ok {
		resp["average"] = avg
	}
	c.JSON(http.StatusOK, resp)
}

type ratingRequest struct {
	Name     string `json:"name" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Feedback string `json:"feedback"`
}

// handleAddRating POST /api/v1/ratings
func (s *Server) handleAddRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := s.profiles.AddRating(currentUser(c).ID, req.Name, req.Rating, req.Feedback); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name, "rating": req.Rating})
}
