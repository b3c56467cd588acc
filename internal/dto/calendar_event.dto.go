package dto

import (
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// CalendarEventDTO is shaped for the admin calendar widget.
type CalendarEventDTO struct {
	ID              uuid.UUID             `json:"id"`
	Title           string                `json:"title"`
	Start           string                `json:"start"`
	End             string                `json:"end"`
	BackgroundColor string                `json:"backgroundColor"`
	BorderColor     string                `json:"borderColor"`
	ExtendedProps   CalendarEventPropsDTO `json:"extendedProps"`
}

type CalendarEventPropsDTO struct {
	Status      string `json:"status"`
	ClientName  string `json:"clientName"`
	ServiceName string `json:"serviceName"`
	Duration    int    `json:"duration"`
	Phone       string `json:"phone"`
}

// NewCalendarEventDTO composes start and end as local datetimes from the
// stored day and clock strings. An end past midnight keeps its "24:30" form.
func NewCalendarEventDTO(ap *models.Appointment) CalendarEventDTO {
	day := domain.DateOf(ap.Date).String()
	color := domain.Status(ap.Status).Color()
	clientName := ap.Client.ShortName()

	return CalendarEventDTO{
		ID:              ap.ID,
		Title:           clientName + " - " + ap.Service.Name,
		Start:           day + "T" + ap.StartTime + ":00",
		End:             day + "T" + ap.EndTime + ":00",
		BackgroundColor: color,
		BorderColor:     color,
		ExtendedProps: CalendarEventPropsDTO{
			Status:      ap.Status,
			ClientName:  clientName,
			ServiceName: ap.Service.Name,
			Duration:    ap.Service.DurationMin,
			Phone:       ap.Client.Phone,
		},
	}
}
