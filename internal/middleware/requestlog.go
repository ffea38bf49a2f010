package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskdeck-dev/taskdeck/internal/logger"
	"go.uber.org/zap"
)

const RequestIDKey = "request_id"

// RequestLogger tags every request with an id and logs it once the
// handler chain finishes.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.Set(RequestIDKey, requestID)
		ctx.Header("X-Request-Id", requestID)

		start := time.Now()
		ctx.Next()

		logger.Log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
