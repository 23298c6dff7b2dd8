package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkravets/transitpass/config"
	"github.com/mkravets/transitpass/internal/cache"
	"github.com/mkravets/transitpass/internal/kafka"
	"github.com/mkravets/transitpass/internal/notify"
	"github.com/mkravets/transitpass/internal/service/tickets"
	"github.com/mkravets/transitpass/internal/storage"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, closeKV, err := storage.OpenKV(ctx, cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer closeKV()

	store := storage.NewStore(kv, cfg.Storage)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	ticketService := tickets.NewTicketService(
		store,
		producer,
		cfg.Kafka.TicketEventsTopic,
		cfg.Ticket.Duration(),
		tickets.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	cacheHelper := cache.New(store, cfg.Cache.TTL())

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.TicketEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepInterval := time.Duration(cfg.Worker.ExpirationSweepSeconds) * time.Second
	if sweepInterval == 0 {
		sweepInterval = time.Minute
	}
	expireTicker := time.NewTicker(sweepInterval)
	defer expireTicker.Stop()

	cacheInterval := time.Duration(cfg.Worker.CacheSweepMinutes) * time.Minute
	if cacheInterval == 0 {
		cacheInterval = time.Hour
	}
	cacheTicker := time.NewTicker(cacheInterval)
	defer cacheTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := ticketService.ExpireDueTickets(ctx)
			if err != nil {
				log.Printf("expire tickets error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d tickets", len(expired))
			}
		case <-cacheTicker.C:
			if removed := cacheHelper.SweepExpired(ctx); removed > 0 {
				log.Printf("swept %d stale cache entries", removed)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
