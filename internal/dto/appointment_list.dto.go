package dto

import (
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type AppointmentPageDTO struct {
	Data       []AppointmentDTO `json:"data"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
}

func NewAppointmentPageDTO(
	aps []models.Appointment,
	page domain.Page,
	total int64,
) AppointmentPageDTO {
	data := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		data = append(data, NewAppointmentDTO(&aps[i]))
	}
	return AppointmentPageDTO{
		Data:       data,
		Page:       page.Number,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}
