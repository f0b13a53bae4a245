package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-user-mediator/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-mediator/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

// UserModule wires the user handlers under /users.
// Public: register, get, list, search, login, activate, password reset.
// Protected: me, logout, update and delete of the caller's own account.
// Login and password reset are rate limited per IP when Redis is available.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")
	users.POST("", m.Handler.Register)
	users.GET("", m.Handler.List)
	users.GET("/search", m.Handler.Search)
	users.GET("/activate", m.Handler.Activate)
	users.POST("/login", loginLimiter, m.Handler.Login)
	users.POST("/password-reset", resetLimiter, m.Handler.RequestPasswordReset)
	users.POST("/password-reset/confirm", resetLimiter, m.Handler.ConfirmPasswordReset)
	users.GET("/:id", m.Handler.Get)

	auth := users.Group("")
	auth.Use(
		middleware.Auth(m.JWT),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("/logout", m.Handler.Logout)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
