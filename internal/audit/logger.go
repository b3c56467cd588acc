package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// Writer persists one audit event.
type Writer interface {
	Write(ctx context.Context, ev Event) error
}

// Logger writes audit events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	entry := ev.toModel()
	return l.db.WithContext(ctx).Create(&entry).Error
}

func (ev Event) toModel() models.AuditLog {
	return models.AuditLog{
		UserID:    ev.Actor.UserID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Details:   ev.Details,
		IP:        ev.Actor.IP,
		UserAgent: ev.Actor.UserAgent,
	}
}
