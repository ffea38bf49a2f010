package models

import "time"

// BaseModel replaces gorm.Model so rows carry JSON tags and, more
// importantly, no DeletedAt column: deletes must be hard deletes for
// the database-level ON DELETE cascades to fire.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
