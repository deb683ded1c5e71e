package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/chronitrack/internal/service"
	"github.com/gin-gonic/gin"
)

type environmentRequest struct {
	Location *string `json:"location"`
}

// FetchEnvironment 查询某地的天气与空气质量；未提供 location 字段时使用系统设置中的默认地点。
func (a *API) FetchEnvironment(c *gin.Context) {
	var payload environmentRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &payload, "Invalid environment request.") {
			return
		}
	}

	var location string
	if payload.Location != nil {
		location = *payload.Location
	} else {
		location = a.currentSettings(c).DefaultLocation
	}

	if a.environment == nil {
		respondError(c, http.StatusBadGateway, "Failed to fetch environmental data.")
		return
	}

	data, err := a.environment.Fetch(c.Request.Context(), location)
	if err != nil {
		if errors.Is(err, service.ErrLocationRequired) {
			respondError(c, http.StatusBadRequest, "Location is required.")
			return
		}
		log.Printf("[ENV] fetch for %q failed: %v", location, err)
		respondError(c, http.StatusBadGateway, "Failed to fetch environmental data.")
		return
	}

	c.JSON(http.StatusOK, data)
}
