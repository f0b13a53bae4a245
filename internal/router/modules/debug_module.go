package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-user-mediator/internal/interface/middleware"
)

// DebugModule serves the Prometheus scrape endpoint, rate limited per IP
// except for private-network scrapers.
type DebugModule struct {
	Metrics http.Handler
	RDB     *redis.Client
}

func NewDebugModule(metrics http.Handler, rdb *redis.Client) *DebugModule {
	return &DebugModule{Metrics: metrics, RDB: rdb}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(m.Metrics))
}
