package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/transitpass/internal/service/stats"
)

type StatsHandler struct {
	service stats.StatsUseCase
}

func NewStatsHandler(service stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.get)
}

func (h *StatsHandler) get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ComputeStatistics(c.Request.Context()))
}
