package main

import (
	"context"
	"flag"
	"os"

	"kdrama_recommend/internal/catalog"
	"kdrama_recommend/internal/logger"
	"kdrama_recommend/internal/profile"
	"kdrama_recommend/internal/recommend"
	"kdrama_recommend/internal/server"
	"kdrama_recommend/internal/task"
	"kdrama_recommend/internal/user"
	"kdrama_recommend/internal/workflow"
	"kdrama_recommend/pkg/omdb"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := InitServerConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Fatal("Failed to parse flags: %v", err)
	}
	logger.Init(os.Stderr, cfg.Server.LogFormat)
	logger.SetDebug(cfg.Server.Debug)
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. 初始化 User Provider
	userProvider, err := user.NewFileProvider(cfg.Paths.Users)
	if err != nil {
		logger.Fatal("Failed to init user provider: %v", err)
	}

	// 2. 初始化 Profile Store
	profileStore, err := profile.NewFileStore(cfg.Paths.Profiles)
	if err != nil {
		logger.Fatal("Failed to init profile store: %v", err)
	}

	// 3. 加载目录，失败时服务仍启动，查询返回 503 直到重新加载成功
	engine := recommend.NewEngine(catalog.NewCSVLoader(cfg.Paths.Catalog))
	if _, err := server.LoadCatalog(context.Background(), engine); err != nil {
		logger.Error("Serving without a catalog until reload succeeds")
	}

	// 4. 初始化 Pipeline Engine
	registry := RegisterNodes(engine, profileStore)
	scenes, err := workflow.NewEngine(cfg.Paths.Pipelines, registry)
	if err != nil {
		logger.Fatal("Failed to init engine: %v", err)
	}
	logger.Info("Loaded scenes: %v", scenes.Scenes())

	// 5. OMDb 客户端 (可选)
	var resolver omdb.Resolver
	if cfg.OMDb.APIKey != "" {
		resolver = omdb.NewClient(cfg.OMDb.Endpoint, cfg.OMDb.APIKey,
			omdb.WithTimeout(cfg.OMDb.Timeout),
			omdb.WithRateLimit(cfg.OMDb.Rate, int(cfg.OMDb.Rate)+1),
		)
	}

	// 6. 启动 HTTP Server
	srv := server.NewServer(server.Deps{
		Users:    userProvider,
		Catalog:  engine,
		Scenes:   scenes,
		Profiles: profileStore,
		Tasks:    task.NewManager(),
		IMDb:     resolver,
	})
	logger.Info("Starting HTTP server on port %s...", cfg.Server.Port)
	if err := srv.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Server failed: %v", err)
	}
}
