package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	Client   Client    `json:"client"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"serviceId"`
	Service   Service   `json:"service"`

	// Date is the calendar day at 00:00 UTC.
	Date      time.Time `gorm:"not null;index:idx_appointments_slot,priority:1" json:"date"`
	StartTime string    `gorm:"size:8;not null;index:idx_appointments_slot,priority:2" json:"startTime"`
	EndTime   string    `gorm:"size:8;not null;index:idx_appointments_slot,priority:3" json:"endTime"`

	Status string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	IsPaid        bool       `gorm:"not null;default:false" json:"isPaid"`
	PaymentMethod string     `gorm:"size:20" json:"paymentMethod"`
	PaidAt        *time.Time `json:"paidAt"`

	Notes string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
