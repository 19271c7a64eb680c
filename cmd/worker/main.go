package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	kafkaGo "github.com/segmentio/kafka-go"
	"skywings/config"
	"skywings/internal/email"
	"skywings/internal/kafka"
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(logClient)

	logClient.Info("notification worker started",
		logger.Field{Key: "topic", Value: cfg.Kafka.NotificationsTopic},
		logger.Field{Key: "group", Value: cfg.Kafka.GroupID},
	)

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// poison message, skip it
			logClient.Error("decode event", logger.Field{Key: "err", Value: err})
			return nil
		}
		return sender.Send(ctx, event)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("consumer error: %v", err)
	}
}
