package services

import (
	"context"
	"time"

	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// MonthlyPayer is the user with the highest or lowest fined total for the
// current calendar month.
type MonthlyPayer struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	TotalAmount     int64  `json:"total_amount"`
	AssignmentCount int64  `json:"assignment_count"`
}

// MonthlyTop returns this month's highest-fined member of a team, or nil
// when the team has no assignments this month.
func (s *StatsService) MonthlyTop(ctx context.Context, teamID string) (*MonthlyPayer, error) {
	return s.monthlyExtreme(ctx, teamID, "DESC")
}

// MonthlyBottom returns this month's lowest-fined member, or nil.
func (s *StatsService) MonthlyBottom(ctx context.Context, teamID string) (*MonthlyPayer, error) {
	return s.monthlyExtreme(ctx, teamID, "ASC")
}

// monthlyExtreme sums fine amounts per member over the current calendar
// month (month and year equality on the server clock, not a rolling window)
// and returns the single extreme row. Equal totals tie-break on the lowest
// user id so the result is deterministic.
func (s *StatsService) monthlyExtreme(ctx context.Context, teamID, order string) (*MonthlyPayer, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	var rows []MonthlyPayer
	err := s.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS user_id, u.name, u.surname, SUM(f.amount) AS total_amount, COUNT(fa.id) AS assignment_count").
		Joins("JOIN memberships m ON u.id = m.user_id").
		Joins("JOIN fine_assignments fa ON fa.user_id = m.user_id AND fa.team_id = m.team_id").
		Joins("JOIN fines f ON fa.fine_id = f.id").
		Where("m.team_id = ?", teamID).
		Where("fa.created_at >= ? AND fa.created_at < ?", monthStart, nextMonth).
		Group("u.id, u.name, u.surname").
		Order("total_amount " + order + ", u.id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, response.NewServerError("failed to compute monthly stats: " + err.Error())
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
