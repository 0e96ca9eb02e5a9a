package handlers

import (
	"net/http"
	"time"

	"github.com/iwtcode/yakAdapter/internal/middleware/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware присваивает запросу идентификатор и пишет одну строку
// журнала по завершении. Уровень зависит от кода ответа.
func LoggingMiddleware(parent *logging.Logger) gin.HandlerFunc {
	logger := parent.WithPrefix("HTTP")

	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		if c.Request.Method == http.MethodOptions {
			return
		}

		kv := []interface{}{
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", kv...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", kv...)
		default:
			logger.Info("Request completed", kv...)
		}
	}
}
