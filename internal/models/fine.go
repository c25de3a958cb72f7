package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fine is a catalog entry: a fine type a team can hand out.
// Amount is in integer minor currency units (cents).
type Fine struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TeamID      string    `gorm:"size:36;index;not null" json:"team_id"`
	Team        *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Amount      int64     `gorm:"not null" json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Fine) TableName() string { return "fines" }

func (f *Fine) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
