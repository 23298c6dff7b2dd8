package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/transitpass/internal/service/tickets"
)

// CacheStore is the slice of the storage layer the settings surface needs.
type CacheStore interface {
	CacheSizeBytes(ctx context.Context) int
	ClearCache(ctx context.Context) error
}

type SettingsHandler struct {
	service tickets.TicketUseCase
	cache   CacheStore
}

type persistenceRequest struct {
	Enabled bool `json:"enabled"`
}

func NewSettingsHandler(service tickets.TicketUseCase, cache CacheStore) *SettingsHandler {
	return &SettingsHandler{service: service, cache: cache}
}

func (h *SettingsHandler) Register(router *gin.RouterGroup) {
	router.GET("/persistence", h.getPersistence)
	router.PUT("/persistence", h.setPersistence)
	router.GET("/cache", h.cacheInfo)
	router.DELETE("/cache", h.clearCache)
}

func (h *SettingsHandler) getPersistence(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.service.PersistenceEnabled(c.Request.Context())})
}

func (h *SettingsHandler) setPersistence(c *gin.Context) {
	var req persistenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SetPersistenceEnabled(c.Request.Context(), req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": req.Enabled})
}

func (h *SettingsHandler) cacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"size_bytes": h.cache.CacheSizeBytes(c.Request.Context())})
}

func (h *SettingsHandler) clearCache(c *gin.Context) {
	if err := h.cache.ClearCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
