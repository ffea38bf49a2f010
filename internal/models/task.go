package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

type Task struct {
	BaseModel

	ProjectID   uint           `gorm:"not null;index" json:"project_id"`
	AssigneeID  *uint          `json:"assignee_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Status      string         `gorm:"not null;default:'pending';check:status IN ('pending','in-progress','done')" json:"status"`
	DueDate     *time.Time     `json:"due_date"`
	Tags        datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	Image       string         `json:"image"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}

// ValidStatus reports whether status is one of the three task states.
// Transitions between states are deliberately unordered.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}
