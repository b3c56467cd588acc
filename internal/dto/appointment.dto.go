package dto

import (
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type ClientSummaryDTO struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DocumentNumber string    `json:"documentNumber"`
	Phone          string    `json:"phone"`
}

type ServiceSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Duration int       `json:"duration"`
	Price    string    `json:"price"`
}

type AppointmentDTO struct {
	ID      uuid.UUID         `json:"id"`
	Client  ClientSummaryDTO  `json:"client"`
	Service ServiceSummaryDTO `json:"service"`

	Date      domain.CalendarDate `json:"date"`
	StartTime string              `json:"startTime"`
	EndTime   string              `json:"endTime"`

	Status string `json:"status"`
	Price  string `json:"price"`

	IsPaid        bool       `json:"isPaid"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	PaidAt        *time.Time `json:"paidAt"`

	Notes string `json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID: ap.ID,
		Client: ClientSummaryDTO{
			ID:             ap.ClientID,
			FirstName:      ap.Client.FirstName,
			LastName:       ap.Client.LastName,
			DocumentNumber: ap.Client.DocumentNumber,
			Phone:          ap.Client.Phone,
		},
		Service: ServiceSummaryDTO{
			ID:       ap.ServiceID,
			Name:     ap.Service.Name,
			Duration: ap.Service.DurationMin,
			Price:    ap.Service.Price.StringFixed(2),
		},
		Date:          domain.DateOf(ap.Date),
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		Status:        ap.Status,
		Price:         ap.Price.StringFixed(2),
		IsPaid:        ap.IsPaid,
		PaymentMethod: ap.PaymentMethod,
		PaidAt:        ap.PaidAt,
		Notes:         ap.Notes,
		CreatedAt:     ap.CreatedAt,
		UpdatedAt:     ap.UpdatedAt,
	}
}
