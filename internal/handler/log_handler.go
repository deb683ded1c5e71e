package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/chronitrack/internal/healthlog"
	"github.com/chronitrack/internal/service"
	"github.com/gin-gonic/gin"
)

type logEntryRequest struct {
	Type             string   `json:"type"`
	Name             string   `json:"name"`
	Severity         *int     `json:"severity"`
	Dosage           string   `json:"dosage"`
	Subtype          string   `json:"subtype"`
	Quality          *int     `json:"quality"`
	Duration         *float64 `json:"duration"`
	Item             *string  `json:"item"`
	ExerciseType     *string  `json:"exerciseType"`
	ExerciseDuration *int     `json:"exerciseDuration"`
	Notes            *string  `json:"notes"`
}

func (r logEntryRequest) toInput() service.EntryInput {
	return service.EntryInput{
		Type:             r.Type,
		Name:             r.Name,
		Severity:         r.Severity,
		Dosage:           r.Dosage,
		Subtype:          r.Subtype,
		Quality:          r.Quality,
		Duration:         r.Duration,
		Item:             r.Item,
		ExerciseType:     r.ExerciseType,
		ExerciseDuration: r.ExerciseDuration,
		Notes:            r.Notes,
	}
}

// ListLogs 返回当前会话的全部记录，按时间倒序。
func (a *API) ListLogs(c *gin.Context) {
	entries, err := a.logs.List(dashboardSessionID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load log entries.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": healthlog.ToRecords(entries)})
}

// CreateLog 新增一条记录，ID 与时间戳由服务端生成。
func (a *API) CreateLog(c *gin.Context) {
	var payload logEntryRequest
	if !bindJSON(c, &payload, "Invalid log entry payload.") {
		return
	}

	entry, err := a.logs.Add(dashboardSessionID(c), payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, healthlog.ErrInvalidEntry), errors.Is(err, healthlog.ErrUnknownType):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[LOG] add entry failed: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to save log entry.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": healthlog.ToRecord(entry)})
}
