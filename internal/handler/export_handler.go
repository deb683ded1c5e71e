package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/chronitrack/internal/healthlog"
	"github.com/gin-gonic/gin"
)

// ExportLogs 以 CSV 附件下载当前会话的全部记录；没有记录时返回 422 提示。
func (a *API) ExportLogs(c *gin.Context) {
	settings := a.currentSettings(c)

	file, err := a.logs.Export(dashboardSessionID(c), settings.ExportPrefix)
	if err != nil {
		if errors.Is(err, healthlog.ErrNothingToExport) {
			respondError(c, http.StatusUnprocessableEntity, "There is no data to export.")
			return
		}
		log.Printf("[EXPORT] export failed: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to export log entries.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, []byte(file.Body))
}
