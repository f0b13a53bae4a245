package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-mediator/config"
	userapp "github.com/oksasatya/go-ddd-user-mediator/internal/application"
	"github.com/oksasatya/go-ddd-user-mediator/internal/metrics"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Clients left nil are simply not used by the configured drivers.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	emailPub   *helpers.RabbitPublisher
	changesPub *helpers.RabbitPublisher
	esClient   *elasticsearch.Client

	registry  *prometheus.Registry
	collector *metrics.Collector

	service *userapp.Service
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetEmailPub(p *helpers.RabbitPublisher)   { emailPub = p }
func GetEmailPub() *helpers.RabbitPublisher    { return emailPub }
func SetChangesPub(p *helpers.RabbitPublisher) { changesPub = p }
func GetChangesPub() *helpers.RabbitPublisher  { return changesPub }
func SetES(c *elasticsearch.Client)            { esClient = c }
func GetES() *elasticsearch.Client             { return esClient }

// SetMetrics installs the registry scraped at /metrics and the collector
// recording dispatches on it.
func SetMetrics(r *prometheus.Registry, c *metrics.Collector) { registry, collector = r, c }
func GetRegistry() *prometheus.Registry                      { return registry }
func GetCollector() *metrics.Collector                       { return collector }

func SetService(s *userapp.Service) { service = s }
func GetService() *userapp.Service  { return service }
