package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/middleware"
	"github.com/teamkasa/teamkasa/internal/services"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
	}
}

type updateDarkmodeRequest struct {
	Darkmode *bool `json:"darkmode" binding:"required"`
}

type updateLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

type updateLastTeamRequest struct {
	LastTeamID string `json:"last_team_id" binding:"required"`
}

// UpdateProfile replaces the authenticated user's profile
// PUT /api/users/me/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.UpdateProfile(ctx, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateDarkmode sets the display preference
// PUT /api/users/me/darkmode
func (h *UserHandler) UpdateDarkmode(c *gin.Context) {
	var req updateDarkmodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.UpdateDarkmode(ctx, middleware.GetUserID(c), *req.Darkmode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateLanguage sets the preferred language code
// PUT /api/users/me/language
func (h *UserHandler) UpdateLanguage(c *gin.Context) {
	var req updateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.UpdateLanguage(ctx, middleware.GetUserID(c), req.Language)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// UpdateLastTeam remembers the team last opened by the user
// PUT /api/users/me/last-team
func (h *UserHandler) UpdateLastTeam(c *gin.Context) {
	var req updateLastTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.UpdateLastTeam(ctx, middleware.GetUserID(c), req.LastTeamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}

// Delete removes the authenticated user's account and everything it owns
// DELETE /api/users/me
func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.userService.Delete(ctx, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
