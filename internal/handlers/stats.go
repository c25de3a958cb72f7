package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamkasa/teamkasa/internal/services"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{
		statsService: services.NewStatsService(db),
	}
}

// TopPayer returns this month's highest-fined member, null when the team has
// no assignments this month
// GET /api/teams/:id/stats/top-payer
func (h *StatsHandler) TopPayer(c *gin.Context) {
	teamID := c.Param("id")

	ctx, cancel := requestContext(c)
	defer cancel()

	payer, err := h.statsService.MonthlyTop(ctx, teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, payer)
}

// BottomPayer returns this month's lowest-fined member, null when the team
// has no assignments this month
// GET /api/teams/:id/stats/bottom-payer
func (h *StatsHandler) BottomPayer(c *gin.Context) {
	teamID := c.Param("id")

	ctx, cancel := requestContext(c)
	defer cancel()

	payer, err := h.statsService.MonthlyBottom(ctx, teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, payer)
}
