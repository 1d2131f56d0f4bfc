package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/cache"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Environment string `json:"environment"`
}

// Health pings Postgres and Redis. It answers 503 when either is down.
func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Cache: "ok", Environment: h.cfg.Environment}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		resp.Database, resp.Status = "error", "degraded"
		status = http.StatusServiceUnavailable
		h.log.Error().Err(err).Msg("database ping failed")
	}

	if err := cache.Ping(ctx, h.cache); err != nil {
		resp.Cache, resp.Status = "error", "degraded"
		status = http.StatusServiceUnavailable
		h.log.Error().Err(err).Msg("redis ping failed")
	}

	c.JSON(status, resp)
}
