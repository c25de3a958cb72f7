package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation is a pending, single-use offer of membership carrying the dress
// number the invitee will receive on accept. Consumed atomically when the
// invitee joins. At most one pending invitation per (user, team).
type Invitation struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TeamID      string    `gorm:"size:36;uniqueIndex:idx_invite_team_user;not null" json:"team_id"`
	Team        *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	UserID      string    `gorm:"size:36;uniqueIndex:idx_invite_team_user;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	DressNumber int       `gorm:"not null" json:"dress_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Invitation) TableName() string { return "invitations" }

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
