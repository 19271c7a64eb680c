package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"skywings/config"
	"skywings/internal/amadeus"
	"skywings/internal/bootstrap"
	"skywings/internal/cache"
	"skywings/internal/kafka"
	"skywings/internal/repository"
	"skywings/internal/service/booking"
	"skywings/internal/service/offers"
	"skywings/pkg/logger"
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

	logClient := logger.NewZeroLog(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	offersTTL := time.Duration(cfg.Booking.OfferCacheTTLSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, offersTTL)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	provider := amadeus.NewClient(&http.Client{Timeout: 30 * time.Second}, cfg.Amadeus, logClient)
	offerService := offers.NewOfferService(provider, redisCache, logClient)

	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		logClient,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithReferenceAttempts(cfg.Booking.ReferenceAttempts),
		booking.WithListLimit(cfg.Booking.ListLimit),
	)

	if err := bootstrap.Run(ctx, cfg, offerService, bookingService, logClient); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
