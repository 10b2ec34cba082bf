package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID reuses an inbound X-Request-Id when it is a UUID and mints one otherwise,
// so arbitrary client strings never end up in logs or error bodies.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := uuid.Parse(ctx.GetHeader(requestIDHeader))

		if err != nil {
			id = uuid.New()
		}

		ctx.Writer.Header().Set(requestIDHeader, id.String())
		ctx.Set(CtxRequestID, id.String())

		ctx.Next()
	}
}

// RequestLogger logs one line per request. Bodies are never logged, they carry passwords.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method

		ctx.Next()

		lat := time.Since(start)
		status := ctx.Writer.Status()

		reqID, _ := ctx.Get(CtxRequestID)

		logAttrs := []any{
			"method", method,
			"route", route,
			"status", status,
			"latency_ms", lat.Milliseconds(),
			"request_id", reqID,
			"client_ip", ctx.ClientIP(),
		}

		if username, ok := UsernameFromContext(ctx); ok {
			logAttrs = append(logAttrs, "username", username)
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		log.Log(ctx.Request.Context(), level, "http_request", logAttrs...)
	}
}
