package handler

import (
	"net/http"

	"github.com/chronitrack/internal/healthlog"
	"github.com/gin-gonic/gin"
)

const dashboardChartURL = "/api/analytics/daily.png"

// ShowDashboard 渲染仪表盘：记录列表、每日汇总表与折线图。
func (a *API) ShowDashboard(c *gin.Context) {
	sessionID := dashboardSessionID(c)

	entries, err := a.logs.List(sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load log entries.")
		return
	}
	rows := healthlog.DailyAggregates(entries, a.logs.Location())

	settings := a.currentSettings(c)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":           "ChroniTrack",
		"entries":         healthlog.ToRecords(entries),
		"daily":           dailyPoints(rows),
		"chartURL":        dashboardChartURL,
		"defaultLocation": settings.DefaultLocation,
	})
}
