package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Project struct {
	BaseModel

	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Tags        datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	Deadline    *time.Time     `json:"deadline"`
	Priority    string         `gorm:"not null;default:'medium';check:priority IN ('low','medium','high')" json:"priority"`
	Image       string         `json:"image"`

	// Relationships
	Owner   User            `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}
