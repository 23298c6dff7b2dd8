package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkravets/transitpass/api"
	"github.com/mkravets/transitpass/config"
	"github.com/mkravets/transitpass/internal/cache"
	"github.com/mkravets/transitpass/internal/service/stats"
	"github.com/mkravets/transitpass/internal/service/tickets"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, ticketSvc tickets.TicketUseCase, statsSvc stats.StatsUseCase, cacheHelper *cache.Cache, cacheStore api.CacheStore) error {
	router := NewRouter(ticketSvc, statsSvc, cacheHelper, cacheStore)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires the collaborator surface: ticket purchases and listing,
// statistics, settings, the cached payment-card block and the metrics
// endpoint.
func NewRouter(ticketSvc tickets.TicketUseCase, statsSvc stats.StatsUseCase, cacheHelper *cache.Cache, cacheStore api.CacheStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api.NewTicketHandler(ticketSvc).Register(router.Group("/tickets"))
	api.NewStatsHandler(statsSvc).Register(router.Group("/statistics"))
	api.NewSettingsHandler(ticketSvc, cacheStore).Register(router.Group("/settings"))
	api.NewPaymentHandler(cacheHelper).Register(router.Group("/payment"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
