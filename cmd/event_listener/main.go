// Command event_listener logs every domain event broadcast on the Redis
// events channel.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/config"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	redisinfra "github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/redis"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-listener", cfg.Env)

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infof("listening on redis channel=%s", cfg.RedisEventsChannel)
	err := redisinfra.Subscribe(ctx, rdb, cfg.RedisEventsChannel,
		func(e event.Event) {
			logger.WithFields(logrus.Fields{
				"detail_type":     e.DetailType,
				"idempotency_key": e.Detail.Metadata.IdempotencyKey,
				"data":            e.Detail.Data,
			}).Info("event received")
		},
		func(payload string, err error) {
			logger.WithError(err).WithField("payload", payload).Warn("undecodable event")
		},
	)
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}
}
