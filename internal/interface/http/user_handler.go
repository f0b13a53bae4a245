package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-ddd-user-mediator/internal/application"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/command"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/mediator"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/query"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-mediator/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/response"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/validation"
)

// HeaderIdempotencyKey is copied into every dispatched request.
const HeaderIdempotencyKey = "Idempotency-Key"

type UserHandler struct {
	Svc       *userapp.Service
	Logger    *logrus.Logger
	Cookies   *helpers.Manager
	AccessTTL time.Duration
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, accessTTL time.Duration, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, AccessTTL: accessTTL, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateRequest struct {
	Name  *string `json:"name" binding:"omitempty,username"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type listRequest struct {
	Skip  int    `form:"skip" binding:"gte=0"`
	Limit int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
	Sort  string `form:"sort" binding:"omitempty,oneof=asc desc"`
}

type resetRequest struct {
	ID string `json:"id" binding:"required,userid"`
}

type resetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

func envelope(c *gin.Context) mediator.Envelope {
	return mediator.Envelope{IdempotencyKey: c.GetHeader(HeaderIdempotencyKey)}
}

// statusFor maps the error taxonomy onto HTTP. Transport failures after a
// durable write surface as 502/503 so clients know to retry with the same key.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperror.ErrDuplicateEmail):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperror.ErrAccountNotActive):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperror.ErrInvalidToken):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrNotification):
		return http.StatusBadGateway, "notification could not be delivered"
	case errors.Is(err, apperror.ErrEventPublication), errors.Is(err, apperror.ErrQueueWrite):
		return http.StatusServiceUnavailable, "downstream unavailable, retry later"
	}
	return http.StatusInternalServerError, "internal error"
}

func fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	response.Error[any](c, status, msg, nil)
}

func badRequest(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// ownerOnly rejects writes to an account other than the caller's.
func ownerOnly(c *gin.Context) bool {
	if c.Param("id") != c.GetString(middleware.CtxUserID) {
		response.Error[any](c, http.StatusForbidden, "not allowed", nil)
		return false
	}
	return true
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), command.CreateUser{
		Envelope: envelope(c), Name: req.Name, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), query.GetUser{Envelope: envelope(c), ID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	users, err := h.Svc.List(c.Request.Context(), query.ListUsers{
		Envelope: envelope(c), Skip: req.Skip, Limit: req.Limit, Sort: repository.SortOrder(req.Sort),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", gin.H{"skip": req.Skip, "count": len(users)})
}

func (h *UserHandler) Update(c *gin.Context) {
	if !ownerOnly(c) {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), command.UpdateUser{
		Envelope: envelope(c), ID: c.Param("id"), Name: req.Name, Email: req.Email,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if !ownerOnly(c) {
		return
	}
	u, err := h.Svc.Delete(c.Request.Context(), command.DeleteUser{Envelope: envelope(c), ID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, u, "user deleted", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tok, err := h.Svc.Login(c.Request.Context(), query.LoginUser{
		Envelope: envelope(c), Email: req.Email, Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	exp := time.Now().Add(h.AccessTTL)
	h.Cookies.SetAccess(c, tok.AccessToken, exp)
	response.Success(c, http.StatusOK, tok, "login successful", gin.H{"access_expires_at": exp.UTC()})
}

func (h *UserHandler) Logout(c *gin.Context) {
	u, err := h.Svc.Logout(c.Request.Context(), command.LogoutUser{
		Envelope: envelope(c), ID: c.GetString(middleware.CtxUserID),
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, u, "logged out", nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), query.GetUserFromToken{
		Envelope: envelope(c), Token: c.GetString(middleware.CtxAccessToken),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// Activate is the target of the activation link: GET ?token=...
func (h *UserHandler) Activate(c *gin.Context) {
	tok := c.Query("token")
	if tok == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"token": "is required"})
		return
	}
	u, err := h.Svc.Activate(c.Request.Context(), command.ActivateUserAccount{Envelope: envelope(c), Token: tok})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "account activated", nil)
}

func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), query.RequestPasswordReset{Envelope: envelope(c), ID: req.ID}); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"requested": true}, "password reset email sent", nil)
}

func (h *UserHandler) ConfirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Svc.ResetPassword(c.Request.Context(), command.ResetPassword{
		Envelope: envelope(c), Token: req.Token, Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "password updated", nil)
}

// Search GET ?q=...&size=... against the Elasticsearch projection.
func (h *UserHandler) Search(c *gin.Context) {
	var req struct {
		Q    string `form:"q" binding:"required"`
		Size int    `form:"size" binding:"omitempty,gte=1,lte=50"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), req.Q, req.Size)
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
