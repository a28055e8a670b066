package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog is an ERROR+ log record persisted next to user data when the
// Postgres backend is bound.
type SystemLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	Level      string         `gorm:"size:10;not null;index" json:"level"`
	Message    string         `gorm:"type:text" json:"message"`
	Backend    string         `gorm:"size:20;index" json:"backend"`
	RequestID  string         `gorm:"size:36;index" json:"request_id"`
	UserID     *string        `gorm:"size:64" json:"user_id"`
	Collection string         `gorm:"size:64" json:"collection"`
	Op         string         `gorm:"size:100" json:"op"`
	Error      string         `gorm:"type:text" json:"error"`
	Extra      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra"`
	CreatedAt  time.Time      `json:"created_at"`
}
