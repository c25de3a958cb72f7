package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/config"
	"github.com/teamkasa/teamkasa/internal/middleware"
	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/internal/services"
	"github.com/teamkasa/teamkasa/internal/utils"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	userService *services.UserService
	jwtConfig   *config.JWTConfig
}

func NewAuthHandler(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		userService: services.NewUserService(db),
		jwtConfig:   jwtCfg,
	}
}

type loginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Register creates a new account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Login authenticates and issues a session token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Login(ctx, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, h.jwtConfig.ExpireHour)
	if err != nil {
		response.ServerError(c, "failed to issue token")
		return
	}

	response.Success(c, loginResponse{
		Token:    token,
		User:     user,
		ExpireAt: time.Now().Add(time.Duration(h.jwtConfig.ExpireHour) * time.Hour),
	})
}

// GetCurrentUser returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.GetByID(ctx, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}
