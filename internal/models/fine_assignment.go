package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FineAssignment is a ledger event: a catalog fine applied to a user within
// a team, attributed to whoever issued it. Rows are append-only; they are
// never updated, only read or removed by cascade.
type FineAssignment struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	TeamID      string    `gorm:"size:36;index;not null" json:"team_id"`
	Team        *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	FineID      string    `gorm:"size:36;index;not null" json:"fine_id"`
	Fine        *Fine     `gorm:"foreignKey:FineID;constraint:OnDelete:CASCADE" json:"fine,omitempty"`
	CreatedByID string    `gorm:"size:36;not null" json:"created_by_id"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"created_by,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FineAssignment) TableName() string { return "fine_assignments" }

func (a *FineAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
