package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"awesomeblog/internal/web"
)

// Health reports database reachability and the table count. An unreachable
// database answers 503.
func (h *Handlers) Health(ctx context.Context, _ *noParams) (any, error) {
	health, err := h.TablesService.Health(ctx)
	resp, encErr := web.JSON(health)
	if encErr != nil {
		return nil, encErr
	}
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		resp.Status = http.StatusServiceUnavailable
	}
	return resp, nil
}
