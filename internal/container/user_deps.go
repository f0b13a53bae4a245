package container

import (
	"errors"
	"fmt"
	"time"

	userapp "github.com/oksasatya/go-ddd-user-mediator/internal/application"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/port"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/event"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/queue"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/console"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/gcs"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/rabbitmq"
	redisinfra "github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/redis"
	"github.com/oksasatya/go-ddd-user-mediator/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
	tpl "github.com/oksasatya/go-ddd-user-mediator/pkg/mailer/templates"
)

// BuildDependencies picks the collaborator for each resource from the
// configured drivers and the clients set on the container.
func BuildDependencies() (userapp.Dependencies, error) {
	if cfg == nil || logger == nil || jwtManager == nil {
		return userapp.Dependencies{}, errors.New("container: config, logger and jwt must be set")
	}
	users, err := buildRepository()
	if err != nil {
		return userapp.Dependencies{}, err
	}
	cache, err := buildCache(users)
	if err != nil {
		return userapp.Dependencies{}, err
	}
	events, err := buildEvents()
	if err != nil {
		return userapp.Dependencies{}, err
	}
	q, err := buildQueue()
	if err != nil {
		return userapp.Dependencies{}, err
	}

	d := userapp.Dependencies{
		Logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
		Users:    users,
		Cache:    cache,
		Events:   events,
		Queue:    q,
		Notifier: buildNotifier(),
		Hasher:   helpers.BcryptHasher{},

		AccessTokens:     helpers.TokenCodec{Manager: jwtManager, Purpose: helpers.PurposeAccess},
		ActivationTokens: helpers.TokenCodec{Manager: jwtManager, Purpose: helpers.PurposeActivation},
		ResetTokens:      helpers.TokenCodec{Manager: jwtManager, Purpose: helpers.PurposeReset},

		ActivationURL: cfg.ActivationURL,
		ResetURL:      cfg.ResetPasswordURL,
	}
	if collector != nil {
		d.Recorder = collector
	}
	return d, nil
}

// BuildService wires the mediator and fails when any kind lacks a handler.
func BuildService() (*userapp.Service, error) {
	d, err := BuildDependencies()
	if err != nil {
		return nil, err
	}
	m := userapp.NewMediator(d)
	if err := userapp.VerifyMediator(m); err != nil {
		return nil, err
	}
	var searcher userapp.UserSearcher
	if esClient != nil {
		searcher = search.NewUserIndexer(esClient, cfg.ESUsersIndex, logger)
	}
	return userapp.NewService(m, searcher, logger), nil
}

func buildRepository() (repository.UserRepository, error) {
	switch cfg.StorageDriver {
	case "postgres":
		if pgPool == nil {
			return nil, errors.New("container: STORAGE_DRIVER=postgres without a pool")
		}
		return pginfra.NewUserRepository(pgPool), nil
	case "memory":
		return memory.NewUserRepository(), nil
	}
	return nil, fmt.Errorf("container: unknown storage driver %q", cfg.StorageDriver)
}

func buildCache(users repository.UserRepository) (repository.UserCache, error) {
	switch cfg.CacheDriver {
	case "redis":
		if redisClient == nil {
			return nil, errors.New("container: CACHE_DRIVER=redis without a client")
		}
		return redisinfra.NewUserCache(redisClient, users, cfg.CacheTTL), nil
	case "memory":
		return memory.NewUserCache(users), nil
	}
	return nil, fmt.Errorf("container: unknown cache driver %q", cfg.CacheDriver)
}

func buildEvents() (event.Publisher, error) {
	var sinks event.Fanout
	for _, name := range cfg.Sinks() {
		switch name {
		case "log":
			sinks = append(sinks, console.EventPublisher{Logger: logger})
		case "redis":
			if redisClient == nil {
				return nil, errors.New("container: redis event sink without a client")
			}
			sinks = append(sinks, redisinfra.NewEventPublisher(redisClient, cfg.RedisEventsChannel))
		case "gcs":
			if gcsClient == nil || cfg.GCSBucket == "" {
				return nil, errors.New("container: gcs event sink needs a client and GCS_BUCKET")
			}
			sinks = append(sinks, gcs.NewEventArchive(gcs.BucketUploader(gcsClient, cfg.GCSBucket), cfg.GCSEventsPrefix))
		default:
			return nil, fmt.Errorf("container: unknown event sink %q", name)
		}
	}
	switch len(sinks) {
	case 0:
		return console.EventPublisher{Logger: logger}, nil
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}

func buildQueue() (queue.Writer, error) {
	switch cfg.QueueDriver {
	case "redis":
		if redisClient == nil {
			return nil, errors.New("container: QUEUE_DRIVER=redis without a client")
		}
		return redisinfra.NewQueueWriter(redisClient, cfg.RedisQueueKey), nil
	case "rabbitmq":
		if changesPub == nil {
			return nil, errors.New("container: QUEUE_DRIVER=rabbitmq without a publisher")
		}
		return rabbitmq.NewQueueWriter(changesPub), nil
	case "log":
		return console.QueueWriter{Logger: logger}, nil
	}
	return nil, fmt.Errorf("container: unknown queue driver %q", cfg.QueueDriver)
}

// buildNotifier queues templated emails when sending is enabled and only
// logs them otherwise.
func buildNotifier() port.Notifier {
	if cfg.MailSendEnabled && emailPub != nil {
		return rabbitmq.NewEmailSender(emailPub, func(n entity.Notification, to string) map[string]any {
			return tpl.NewData(cfg, string(n.Kind), n.Name, to, n.Link)
		})
	}
	return console.Notifier{Logger: logger}
}
