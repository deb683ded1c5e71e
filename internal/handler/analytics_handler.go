package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/chronitrack/internal/chart"
	"github.com/chronitrack/internal/healthlog"
	"github.com/gin-gonic/gin"
)

// dailyPoint 是每日汇总的 JSON 形态，缺失的值输出为 null。
type dailyPoint struct {
	Date            string   `json:"date"`
	Label           string   `json:"label"`
	SymptomSeverity *float64 `json:"symptomSeverity"`
	SleepQuality    *int     `json:"sleepQuality"`
}

func dailyPoints(rows []healthlog.DailyAggregate) []dailyPoint {
	points := make([]dailyPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dailyPoint{
			Date:            row.Date,
			Label:           row.ChartLabel(),
			SymptomSeverity: row.SymptomSeverity,
			SleepQuality:    row.SleepQuality,
		})
	}
	return points
}

// GetDailyAnalytics 返回按天汇总的症状严重度与睡眠质量。
func (a *API) GetDailyAnalytics(c *gin.Context) {
	rows, err := a.logs.Daily(dashboardSessionID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to aggregate log entries.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timezone": a.logs.Location().String(),
		"days":     dailyPoints(rows),
	})
}

// GetDailyChart 以 PNG 返回每日汇总折线图，可通过 width/height 查询参数调整尺寸。
func (a *API) GetDailyChart(c *gin.Context) {
	width, err := parseIntQuery(c, "width")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	height, err := parseIntQuery(c, "height")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := a.logs.Daily(dashboardSessionID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to aggregate log entries.")
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderDaily(&buf, rows, chart.Options{Width: width, Height: height}); err != nil {
		if errors.Is(err, chart.ErrCanvasTooSmall) || errors.Is(err, chart.ErrCanvasTooLarge) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to render chart.")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, chart.ContentType, buf.Bytes())
}
