package router

import (
	"github.com/oksasatya/go-ddd-user-mediator/internal/container"
	handlers "github.com/oksasatya/go-ddd-user-mediator/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-mediator/internal/metrics"
	"github.com/oksasatya/go-ddd-user-mediator/internal/router/modules"
)

// InitModules registers the feature modules built from the container. The
// user service must already be set.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	handler := handlers.NewUserHandler(
		container.GetService(),
		container.GetLogger(),
		cfg.AccessTTL,
		cfg.CookieDomain,
		cfg.CookieSecure,
	)
	r.Add(modules.NewUserModule(handler, container.GetJWT(), container.GetRedis()))

	if cfg.MetricsEnabled && container.GetRegistry() != nil {
		r.Add(modules.NewDebugModule(metrics.Handler(container.GetRegistry()), container.GetRedis()))
	}
}
