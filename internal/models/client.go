package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is owned by the clients module; scheduling only reads it.
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DocumentType   string `gorm:"size:5;not null;default:'DNI'" json:"documentType"`
	DocumentNumber string `gorm:"size:20;not null;uniqueIndex" json:"documentNumber"`

	FirstName      string `gorm:"size:100;not null" json:"firstName"`
	LastName       string `gorm:"size:100;not null" json:"lastName"`
	SecondLastName string `gorm:"size:100" json:"secondLastName"`

	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	IsActive bool `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ShortName is "first last", the form used on calendar titles.
func (c Client) ShortName() string {
	return c.FirstName + " " + c.LastName
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName + " " + c.SecondLastName)
}
