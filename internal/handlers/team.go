package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/middleware"
	"github.com/teamkasa/teamkasa/internal/services"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{
		teamService: services.NewTeamService(db),
	}
}

// Create makes a new team with the caller as its admin
// POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req services.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	team, err := h.teamService.Create(ctx, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, team)
}

// List returns the caller's teams with member counts
// GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	teams, err := h.teamService.ListByUser(ctx, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, teams)
}

// Members returns a team's roster
// GET /api/teams/:id/members
func (h *TeamHandler) Members(c *gin.Context) {
	teamID := c.Param("id")

	ctx, cancel := requestContext(c)
	defer cancel()

	members, err := h.teamService.Members(ctx, teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// MemberCount returns how many users belong to a team
// GET /api/teams/:id/member-count
func (h *TeamHandler) MemberCount(c *gin.Context) {
	teamID := c.Param("id")

	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.teamService.MemberCount(ctx, teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// Role returns a user's role in a team, empty when not a member.
// Defaults to the caller; pass user_id to ask about another member.
// GET /api/teams/:id/role?user_id=<optional>
func (h *TeamHandler) Role(c *gin.Context) {
	teamID := c.Param("id")
	userID := c.Query("user_id")
	if userID == "" {
		userID = middleware.GetUserID(c)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.teamService.RoleInTeam(ctx, teamID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"role": role})
}
