package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// New builds a pending, unpaid appointment priced from the service as it is
// right now.
func New(
	clientID uuid.UUID,
	service *models.Service,
	date CalendarDate,
	startTime string,
	notes string,
) (*models.Appointment, error) {

	ap := &models.Appointment{
		ID:       uuid.New(),
		ClientID: clientID,
		Date:     date.Time(),
		Status:   string(InitialStatus()),
		IsPaid:   false,
		Notes:    notes,
	}

	AssignService(ap, service)
	if err := Reschedule(ap, startTime, service.DurationMin); err != nil {
		return nil, err
	}
	return ap, nil
}

// AssignService points the appointment at service and snapshots its price.
// Later price changes on the service do not reach this appointment.
func AssignService(ap *models.Appointment, service *models.Service) {
	ap.ServiceID = service.ID
	ap.Service = *service
	ap.Price = service.Price
}

// Reschedule sets the start time and derives the end time from duration.
func Reschedule(ap *models.Appointment, startTime string, durationMinutes int) error {
	start, err := NormalizeClock(startTime)
	if err != nil {
		return err
	}
	end, err := ComputeEndTime(start, durationMinutes)
	if err != nil {
		return err
	}
	ap.StartTime = start
	ap.EndTime = end
	return nil
}

// ConfirmPayment marks the appointment paid and forces it to confirmed,
// whatever its previous status. Calling it again overwrites method and time.
func ConfirmPayment(ap *models.Appointment, method PaymentMethod, now time.Time) {
	paidAt := now.UTC()
	ap.IsPaid = true
	ap.PaymentMethod = string(method)
	ap.PaidAt = &paidAt
	ap.Status = string(StatusConfirmed)
}

// SlotOf is the overlap query an appointment must pass against its peers.
func SlotOf(ap *models.Appointment) OverlapQuery {
	return OverlapQuery{
		Date:      DateOf(ap.Date),
		StartTime: ap.StartTime,
		EndTime:   ap.EndTime,
		ExcludeID: ap.ID,
	}
}
