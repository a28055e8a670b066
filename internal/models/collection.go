package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserCollection stores one collection blob per user, mirroring the
// one-key-per-collection layout of the device store.
type UserCollection struct {
	UserID     string         `gorm:"size:64;primaryKey" json:"user_id"`
	Collection string         `gorm:"size:64;primaryKey" json:"collection"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null" json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (UserCollection) TableName() string {
	return "user_collections"
}
