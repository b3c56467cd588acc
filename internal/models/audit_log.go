package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID string `gorm:"size:64" json:"userId"`
	Action string `gorm:"size:50;not null;index" json:"action"`

	Entity   string     `gorm:"size:50" json:"entity"`
	EntityID *uuid.UUID `gorm:"type:uuid" json:"entityId"`
	Details  string     `gorm:"type:text" json:"details"`

	IP        string `gorm:"size:64" json:"ip"`
	UserAgent string `gorm:"size:255" json:"userAgent"`

	CreatedAt time.Time `json:"createdAt"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
