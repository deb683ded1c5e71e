package main

import (
	"log"

	"github.com/chronitrack/internal/config"
	"github.com/chronitrack/internal/db"
	"github.com/chronitrack/internal/handler"
	"github.com/chronitrack/internal/router"
	"github.com/chronitrack/internal/secret"
	"github.com/chronitrack/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	box, err := secret.NewBox(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("failed to initialize secret box: %v", err)
	}

	system := service.NewSystemSettingService(db.DB, box, service.SystemSettings{
		AIProvider:      cfg.AIProvider,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		DeepSeekAPIKey:  cfg.DeepSeekAPIKey,
		DefaultLocation: cfg.DefaultLocation,
		ExportPrefix:    cfg.ExportPrefix,
	})
	logs := service.NewHealthLogService(cfg.SeedSampleData, cfg.DayBoundary())
	api := handler.NewAPI(db.DB, logs, system, service.NewEnvironmentService(system))

	// 设置并运行 Gin 服务器
	r, err := router.SetupRouter(api, cfg.SessionSecret)
	if err != nil {
		log.Fatalf("failed to set up router: %v", err)
	}

	log.Printf("[SERVER] listening on %s (day boundary %s)", cfg.ListenAddr, cfg.DayBoundaryTZ)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
