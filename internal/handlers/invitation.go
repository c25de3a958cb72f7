package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/middleware"
	"github.com/teamkasa/teamkasa/internal/services"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
	teamService       *services.TeamService
}

func NewInvitationHandler(db *gorm.DB) *InvitationHandler {
	return &InvitationHandler{
		invitationService: services.NewInvitationService(db),
		teamService:       services.NewTeamService(db),
	}
}

// Create invites a user by email to a team. Only existing members may invite.
// POST /api/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	var req services.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.teamService.RoleInTeam(ctx, req.TeamID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if role == "" {
		response.Error(c, response.NewForbidden("only team members may invite"))
		return
	}

	invitation, err := h.invitationService.Create(ctx, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invitation)
}

// List returns the teams the caller is invited to
// GET /api/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	teams, err := h.invitationService.ListForUser(ctx, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, teams)
}

// Accept consumes the caller's invitation and joins the team as guest
// POST /api/invitations/:team_id/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	teamID := c.Param("team_id")

	ctx, cancel := requestContext(c)
	defer cancel()

	membership, err := h.invitationService.Accept(ctx, middleware.GetUserID(c), teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, membership)
}

// Decline drops the caller's pending invitation
// POST /api/invitations/:team_id/decline
func (h *InvitationHandler) Decline(c *gin.Context) {
	teamID := c.Param("team_id")

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.invitationService.Decline(ctx, middleware.GetUserID(c), teamID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
