package handler

import (
	"strings"

	"github.com/chronitrack/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	logs        *service.HealthLogService
	system      *service.SystemSettingService
	environment service.EnvironmentFetcher
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, logs *service.HealthLogService, system *service.SystemSettingService, environment service.EnvironmentFetcher) *API {
	return &API{
		db:          db,
		logs:        logs,
		system:      system,
		environment: environment,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// currentSettings 读取系统设置，失败时记录错误并返回默认值。
func (a *API) currentSettings(c *gin.Context) service.SystemSettings {
	settings, err := a.system.GetSettings()
	if err != nil {
		c.Error(err)
	}
	settings.DefaultLocation = strings.TrimSpace(settings.DefaultLocation)
	return settings
}
