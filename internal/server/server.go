package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kdrama_recommend/internal/catalog"
	"kdrama_recommend/internal/logger"
	"kdrama_recommend/internal/model"
	"kdrama_recommend/internal/nodes"
	"kdrama_recommend/internal/profile"
	"kdrama_recommend/internal/recommend"
	"kdrama_recommend/internal/similarity"
	"kdrama_recommend/internal/task"
	"kdrama_recommend/internal/user"
	"kdrama_recommend/internal/workflow"
	"kdrama_recommend/pkg/omdb"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	userKey         = "user"
	requestIDHeader = "X-Request-ID"

	defaultTrending = 10
	sceneTimeout    = 30 * time.Second
	lookupTimeout   = 5 * time.Second
)

// Deps 服务器依赖的组件
type Deps struct {
	Users    user.Registry
	Catalog  *recommend.Engine
	Scenes   *workflow.Engine
	Profiles profile.Store
	Tasks    *task.Manager
	IMDb     omdb.Resolver // 可为 nil，为空时不附带 IMDb 链接
}

// Server 代表 HTTP API 服务器
type Server struct {
	router   *gin.Engine
	users    user.Registry
	catalog  *recommend.Engine
	scenes   *workflow.Engine
	profiles profile.Store
	tasks    *task.Manager
	imdb     omdb.Resolver
}

// NewServer 创建新的 HTTP 服务器
func NewServer(d Deps) *Server {
	s := &Server{
		router:   gin.New(),
		users:    d.Users,
		catalog:  d.Catalog,
		scenes:   d.Scenes,
		profiles: d.Profiles,
		tasks:    d.Tasks,
		imdb:     d.IMDb,
	}
	if s.tasks == nil {
		s.tasks = task.NewManager()
	}
	s.router.Use(gin.Recovery(), s.requestMiddleware(), s.corsMiddleware())
	s.setupRoutes()
	return s
}

// Handler 返回底层 http.Handler，便于测试和自定义 http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	v1.POST("/register", s.handleRegister)
	v1.POST("/login", s.handleLogin)

	// 以下接口需要 Token 鉴权
	auth := v1.Group("")
	auth.Use(s.authMiddleware())

	auth.GET("/items", s.handleFindItems)
	auth.GET("/items/:id", s.handleGetItem)
	auth.GET("/genres", s.handleGenres)
	auth.GET("/trending", s.handleTrending)

	// 推荐接口 - 使用路径参数传递 scene
	auth.POST("/recommend/:scene", s.handleRecommend)

	auth.GET("/watchlist", s.handleWatchlist)
	auth.POST("/watchlist", s.handleAddWatchlist)
	auth.DELETE("/watchlist", s.handleRemoveWatchlist)

	auth.GET("/ratings", s.handleRatings)
	auth.POST("/ratings", s.handleAddRating)

	auth.POST("/catalog/reload", s.handleReload)
	auth.GET("/tasks/:id", s.handleGetTask)
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestMiddleware 分配请求 ID 并记录访问日志
func (s *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.L().Info().
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// authMiddleware 鉴权中间件
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		u, err := s.users.GetUserByToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 将用户信息存入 Context
		c.Set(userKey, u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// statusFor 将领域错误映射为 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownItem),
		errors.Is(err, workflow.ErrPipelineNotFound),
		errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, similarity.ErrInvalidLimit),
		errors.Is(err, nodes.ErrMissingSeed),
		errors.Is(err, profile.ErrInvalidRating),
		errors.Is(err, profile.ErrEmptyItem):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// handleHealth GET /healthz
func (s *Server) handleHealth(c *gin.Context) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"catalog_version": snap.Version,
		"catalog_items":   snap.Catalog.Len(),
		"loaded_at":       snap.LoadedAt,
	})
}
