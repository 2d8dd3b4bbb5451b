package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
)

func accessLogMiddleware(logger *slog.Logger) app.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		status := ctx.Response.StatusCode()
		attrs := []any{
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", status,
			"latency", time.Since(start).String(),
		}
		if user := string(ctx.GetHeader(userIDHeader)); user != "" {
			attrs = append(attrs, "user_id", user)
		}
		if status >= 500 {
			logger.Error("http request", attrs...)
			return
		}
		logger.Info("http request", attrs...)
	}
}
