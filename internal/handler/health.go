package handler

import (
	"context"
	"time"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const cachePingTimeout = 2 * time.Second

// HealthHandler reports liveness and, when configured, cache reachability.
type HealthHandler struct {
	cache domain.Cache
}

// NewHealthHandler creates a HealthHandler. cache may be nil.
func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok"}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), cachePingTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Cache ping failed", zap.Error(err))
			resp.Cache = "unavailable"
		} else {
			resp.Cache = "ok"
		}
	}
	return c.JSON(resp)
}
