package container

import (
	"context"
	"fmt"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/config"
	pginfra "github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-mediator/internal/metrics"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

// Bootstrap opens the clients the configured drivers need and stores them
// on the container. The returned func closes whatever was opened.
func Bootstrap(ctx context.Context, c *config.Config, l *logrus.Logger) (func(), error) {
	SetConfig(c)
	SetLogger(l)
	SetJWT(helpers.NewJWTManager(c.JWTAccessSecret, c.JWTActionSecret, c.AccessTTL, c.ActivationTTL, c.ResetTTL))

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(what string, err error) (func(), error) {
		cleanup()
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	if c.StorageDriver == "postgres" {
		pool, err := pginfra.NewPool(ctx, c.PostgresDSN(), c.DBMaxConns, c.DBMinConns, c.DBMaxConnLife)
		if err != nil {
			return fail("postgres", err)
		}
		SetPGPool(pool)
		closers = append(closers, pool.Close)
	}

	if c.NeedsRedis() {
		rdb := helpers.NewRedisClient(c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fail("redis", err)
		}
		SetRedis(rdb)
		closers = append(closers, func() { _ = rdb.Close() })
	}

	if slices.Contains(c.Sinks(), "gcs") {
		gcsClient, err := helpers.NewGCSClient(ctx, c.GCSCredentialsJSONPath)
		if err != nil {
			return fail("gcs", err)
		}
		SetGCS(gcsClient)
		closers = append(closers, func() { _ = gcsClient.Close() })
	}

	if c.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(c.RabbitMQURL, c.RabbitMQEmailQueue)
		if err != nil {
			return fail("rabbitmq email queue", err)
		}
		SetEmailPub(pub)
		closers = append(closers, pub.Close)
	}

	if c.QueueDriver == "rabbitmq" {
		pub, err := helpers.NewRabbitPublisher(c.RabbitMQURL, c.RabbitMQChangesQueue)
		if err != nil {
			return fail("rabbitmq changes queue", err)
		}
		SetChangesPub(pub)
		closers = append(closers, pub.Close)
	}

	if c.SearchEnabled {
		es, err := helpers.NewESClient(c.ESAddrs(), c.ElasticsearchUser, c.ElasticsearchPass)
		if err != nil {
			return fail("elasticsearch", err)
		}
		SetES(es)
	}

	if c.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		SetMetrics(reg, metrics.NewCollector(reg))
	}

	svc, err := BuildService()
	if err != nil {
		return fail("user service", err)
	}
	SetService(svc)

	l.WithFields(logrus.Fields{
		"storage": c.StorageDriver,
		"cache":   c.CacheDriver,
		"queue":   c.QueueDriver,
		"sinks":   c.Sinks(),
	}).Info("container ready")
	return cleanup, nil
}
