package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type UpdateAppointmentStatus struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulingMetrics,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:    repo,
		audit:   audit,
		metrics: m,
	}
}

// Execute moves the appointment to any of the known statuses, whatever the
// current one is.
func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	actor audit.Actor,
	id uuid.UUID,
	rawStatus string,
) (ap *models.Appointment, err error) {
	defer func() { uc.metrics.ObserveOperation("status", err) }()

	ap, err = loadAppointment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	ap.Status = string(status)

	if err := uc.repo.UpdateAppointment(ctx, ap, domain.FieldStatus); err != nil {
		return nil, persistError(err)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   audit.ActionAppointmentStatus,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Details:  fmt.Sprintf("appointment status changed to: %s", status),
	})

	return ap, nil
}
