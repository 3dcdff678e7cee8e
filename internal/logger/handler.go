package logger

import (
	"context"
	"log/slog"

	"petchat/backend/internal/middleware"
)

// ContextHandler stamps the request correlation ID onto every record logged
// with a request context, so pipeline stages don't thread it by hand.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(middleware.CorrelationKey).(string); ok && id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	return h.Handler.Handle(ctx, r)
}
