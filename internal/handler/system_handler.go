package handler

import (
	"errors"
	"net/http"

	"github.com/chronitrack/internal/secret"
	"github.com/chronitrack/internal/service"
	"github.com/gin-gonic/gin"
)

// HealthCheck 提供部署平台与监控系统使用的健康检查端点。
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "database handle unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
		"sessions": a.logs.SessionCount(),
	})
}

// systemSettingsRequest 中的 Key 字段缺省时保留原值，传空字符串时清除。
type systemSettingsRequest struct {
	AIProvider      string  `json:"aiProvider"`
	OpenAIAPIKey    *string `json:"openaiApiKey"`
	DeepSeekAPIKey  *string `json:"deepseekApiKey"`
	DefaultLocation string  `json:"defaultLocation"`
	ExportPrefix    string  `json:"exportPrefix"`
}

type aiTestRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

// GetSystemSettings 返回当前系统设置，API Key 仅回显掩码。
func (a *API) GetSystemSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load settings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": systemSettingsPayload(settings)})
}

// UpdateSystemSettings 保存系统设置。
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload systemSettingsRequest
	if !bindJSON(c, &payload, "Invalid settings payload.") {
		return
	}

	settings, err := a.system.UpdateSettings(payload.toInput())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save settings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings saved.",
		"settings": systemSettingsPayload(settings),
	})
}

func (r systemSettingsRequest) toInput() service.SystemSettingsInput {
	return service.SystemSettingsInput{
		AIProvider:      r.AIProvider,
		OpenAIAPIKey:    r.OpenAIAPIKey,
		DeepSeekAPIKey:  r.DeepSeekAPIKey,
		DefaultLocation: r.DefaultLocation,
		ExportPrefix:    r.ExportPrefix,
	}
}

func systemSettingsPayload(settings service.SystemSettings) gin.H {
	return gin.H{
		"aiProvider":        settings.AIProvider,
		"openaiApiKey":      secret.Mask(settings.OpenAIAPIKey),
		"openaiApiKeySet":   settings.OpenAIAPIKey != "",
		"deepseekApiKey":    secret.Mask(settings.DeepSeekAPIKey),
		"deepseekApiKeySet": settings.DeepSeekAPIKey != "",
		"defaultLocation":   settings.DefaultLocation,
		"exportPrefix":      settings.ExportPrefix,
	}
}

// TestAIConnection 测试不同 AI 平台 API Key 的连通性。
func (a *API) TestAIConnection(c *gin.Context) {
	var payload aiTestRequest
	if !bindJSON(c, &payload, "Invalid AI connection payload.") {
		return
	}

	if err := a.system.TestAIConnection(c.Request.Context(), payload.Provider, payload.APIKey); err != nil {
		switch {
		case errors.Is(err, service.ErrAIAPIKeyMissing):
			respondError(c, http.StatusBadRequest, "An AI API key is required.")
		default:
			respondError(c, http.StatusBadGateway, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "AI connection is working."})
}
