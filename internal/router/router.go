package router

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chronitrack/internal/handler"
	"github.com/chronitrack/internal/service"
	"github.com/chronitrack/internal/view"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "chronitrack_session"

// cookie 有效期与服务端回收空闲会话的时长保持一致。
const sessionMaxAge = int(service.DefaultSessionIdleTimeout / time.Second)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) (*gin.Engine, error) {
	if strings.TrimSpace(sessionSecret) == "" {
		return nil, errors.New("session secret is required")
	}

	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", api.HealthCheck)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})

	// 以下路由按匿名会话隔离日志
	dashboard := r.Group("")
	dashboard.Use(handler.DashboardSession())
	{
		dashboard.GET("/dashboard", api.ShowDashboard)

		apiGroup := dashboard.Group("/api")
		{
			apiGroup.GET("/logs", api.ListLogs)
			apiGroup.POST("/logs", api.CreateLog)

			apiGroup.GET("/analytics/daily", api.GetDailyAnalytics)
			apiGroup.GET("/analytics/daily.png", api.GetDailyChart)

			apiGroup.GET("/export", api.ExportLogs)
			apiGroup.POST("/environment", api.FetchEnvironment)

			// 系统设置为全局单一配置，所有会话共享同一组 API Key 与默认地点。
			apiGroup.GET("/settings", api.GetSystemSettings)
			apiGroup.PUT("/settings", api.UpdateSystemSettings)
			apiGroup.POST("/settings/ai/test", api.TestAIConnection)
		}
	}

	return r, nil
}
