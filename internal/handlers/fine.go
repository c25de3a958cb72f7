package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/middleware"
	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/internal/services"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type FineHandler struct {
	fineService *services.FineService
	teamService *services.TeamService
}

func NewFineHandler(db *gorm.DB) *FineHandler {
	return &FineHandler{
		fineService: services.NewFineService(db),
		teamService: services.NewTeamService(db),
	}
}

// requireRole checks the caller's role in a team and writes the error
// response itself when the check fails.
func (h *FineHandler) requireRole(c *gin.Context, teamID string, adminOnly bool) bool {
	ctx, cancel := requestContext(c)
	defer cancel()

	role, err := h.teamService.RoleInTeam(ctx, teamID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return false
	}
	if role == "" {
		response.Error(c, response.NewForbidden("not a member of this team"))
		return false
	}
	if adminOnly && role != models.RoleAdmin {
		response.Error(c, response.NewForbidden("admin role required"))
		return false
	}
	return true
}

// Define adds a fine type to a team's catalog (admin only)
// POST /api/fines
func (h *FineHandler) Define(c *gin.Context) {
	var req services.DefineFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !h.requireRole(c, req.TeamID, true) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	fine, err := h.fineService.Define(ctx, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, fine)
}

// Assign applies a catalog fine to a team member
// POST /api/fines/assign
func (h *FineHandler) Assign(c *gin.Context) {
	var req services.AssignFineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !h.requireRole(c, req.TeamID, false) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	assignment, err := h.fineService.Assign(ctx, &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment)
}

// List returns a team's fine catalog
// GET /api/teams/:id/fines
func (h *FineHandler) List(c *gin.Context) {
	teamID := c.Param("id")

	ctx, cancel := requestContext(c)
	defer cancel()

	fines, err := h.fineService.ListForTeam(ctx, teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, fines)
}

// Assignments returns the fines one member collected in a team
// GET /api/teams/:id/members/:user_id/fines
func (h *FineHandler) Assignments(c *gin.Context) {
	teamID := c.Param("id")
	userID := c.Param("user_id")

	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.fineService.AssignmentsForTeamAndUser(ctx, teamID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, rows)
}

// Delete removes a single catalog fine (admin only)
// DELETE /api/teams/:id/fines/:fine_id
func (h *FineHandler) Delete(c *gin.Context) {
	teamID := c.Param("id")
	fineID := c.Param("fine_id")

	if !h.requireRole(c, teamID, true) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.fineService.DeleteOne(ctx, fineID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Purge deletes a team's whole fine catalog and every assignment referencing
// it. Destructive, so the caller must be an admin and pass confirm=true.
// DELETE /api/teams/:id/fines?confirm=true
func (h *FineHandler) Purge(c *gin.Context) {
	teamID := c.Param("id")

	if c.Query("confirm") != "true" {
		response.BadRequest(c, "catalog purge requires confirm=true")
		return
	}

	if !h.requireRole(c, teamID, true) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.fineService.PurgeCatalog(ctx, teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}
