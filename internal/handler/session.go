package handler

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionIDKey        = "sid"
	sessionIDContextKey = "__dashboard_session_id"
)

// DashboardSession 为每个访客分配匿名会话标识，日志记录按该标识隔离。
func DashboardSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(sessionIDKey).(string)
		if id == "" {
			id = uuid.NewString()
			session.Set(sessionIDKey, id)
			if err := session.Save(); err != nil {
				log.Printf("[SESSION] save failed: %v", err)
				respondError(c, http.StatusInternalServerError, "Failed to start a dashboard session.")
				c.Abort()
				return
			}
		}
		c.Set(sessionIDContextKey, id)
		c.Next()
	}
}

func dashboardSessionID(c *gin.Context) string {
	return c.GetString(sessionIDContextKey)
}
