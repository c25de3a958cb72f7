package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership roles.
const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// Membership associates a user with a team under a role and a dress number.
// A user holds at most one membership per team, enforced by idx_team_user.
type Membership struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex:idx_team_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	TeamID    string    `gorm:"size:36;uniqueIndex:idx_team_user;not null" json:"team_id"`
	Team      *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	Role      string    `gorm:"size:50;not null" json:"role"` // admin, guest
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Membership) TableName() string { return "memberships" }

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
