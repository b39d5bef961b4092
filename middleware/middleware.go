package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zapcore"

	"codetrack/logger"
	"codetrack/model"
	"codetrack/service"
)

// RequireAuth validates the bearer token and stores the resolved user id in
// the context for handlers.
func RequireAuth(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			abortUnauthorized(c)
			return
		}
		userID, err := svc.ParseToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.GenericResponse{
		Success: false,
		Status:  http.StatusUnauthorized,
		Error: &model.ErrorInfo{
			ErrorType: "UNAUTHORIZED",
			Code:      http.StatusUnauthorized,
			Message:   "missing or invalid bearer token",
		},
	})
}

// RequestLogger emits one structured line per request.
func RequestLogger(log *logger.LogStreamer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := zapcore.InfoLevel
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		log.Log(level, "", "Request handled", map[string]any{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIp": c.ClientIP(),
		}, "HTTP", nil)
	}
}
