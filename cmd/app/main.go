package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkravets/transitpass/config"
	"github.com/mkravets/transitpass/internal/bootstrap"
	"github.com/mkravets/transitpass/internal/cache"
	"github.com/mkravets/transitpass/internal/kafka"
	"github.com/mkravets/transitpass/internal/service/stats"
	"github.com/mkravets/transitpass/internal/service/tickets"
	"github.com/mkravets/transitpass/internal/storage"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := storage.OpenKV(ctx, cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer closeKV()

	store := storage.NewStore(kv, cfg.Storage)

	var producer tickets.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	ticketService := tickets.NewTicketService(
		store,
		producer,
		cfg.Kafka.TicketEventsTopic,
		cfg.Ticket.Duration(),
		tickets.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	statsService := stats.NewStatsService(store, cfg.Ticket.UnitPrice)
	cacheHelper := cache.New(store, cfg.Cache.TTL())

	// Installs that predate the separate statistics feed get it rebuilt from
	// the surviving ticket set.
	if err := statsService.Backfill(ctx); err != nil {
		log.Printf("statistics backfill: %v", err)
	}

	if err := bootstrap.Run(ctx, cfg, ticketService, statsService, cacheHelper, store); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
