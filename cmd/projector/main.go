// Command projector drains the downstream change queue into the
// Elasticsearch user index.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/config"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	redisinfra "github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/redis"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

const popTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-projector", cfg.Env)

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	indexer := search.NewUserIndexer(es, cfg.ESUsersIndex, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := indexer.EnsureIndex(ctx); err != nil {
		logger.WithError(err).Fatal("search index unavailable")
	}

	switch cfg.QueueDriver {
	case "redis":
		err = fromRedis(ctx, cfg, indexer, logger)
	case "rabbitmq":
		err = fromRabbit(ctx, cfg, indexer, logger)
	default:
		log.Fatalf("QUEUE_DRIVER=%s has nothing to project", cfg.QueueDriver)
	}
	if err != nil {
		logger.WithError(err).Fatal("projector stopped")
	}
	logger.Info("projector exited")
}

func fromRedis(ctx context.Context, cfg *config.Config, indexer *search.UserIndexer, logger *logrus.Logger) error {
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	logger.Infof("projecting from redis list=%s", cfg.RedisQueueKey)
	for ctx.Err() == nil {
		m, ok, err := redisinfra.Pop(ctx, rdb, cfg.RedisQueueKey, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.WithError(err).Warn("pop failed")
			time.Sleep(time.Second)
			continue
		}
		if !ok {
			continue
		}
		// a message popped from the list is gone; failures are logged only
		if err := indexer.Apply(ctx, m); err != nil {
			logger.WithError(err).WithField("command", m.Command).Error("projection failed")
		}
	}
	return nil
}

func fromRabbit(ctx context.Context, cfg *config.Config, indexer *search.UserIndexer, logger *logrus.Logger) error {
	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQChangesQueue, 32)
	if err != nil {
		return err
	}
	defer consumer.Close()
	deliveries, err := consumer.Deliveries()
	if err != nil {
		return err
	}

	logger.Infof("projecting from rabbitmq queue=%s", cfg.RabbitMQChangesQueue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var m queue.Message
			if err := json.Unmarshal(d.Body, &m); err != nil {
				logger.WithError(err).Warn("bad change message")
				_ = d.Nack(false, false)
				continue
			}
			if err := indexer.Apply(ctx, m); err != nil {
				logger.WithError(err).WithField("command", m.Command).Error("projection failed")
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
