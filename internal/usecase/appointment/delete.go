package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
)

type DeleteAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulingMetrics,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:    repo,
		audit:   audit,
		metrics: m,
	}
}

// Execute removes the appointment for good. Client and service are left
// untouched.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actor audit.Actor,
	id uuid.UUID,
) (err error) {
	defer func() { uc.metrics.ObserveOperation("delete", err) }()

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		if isNotFound(err) {
			return errNotFound
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   audit.ActionAppointmentDelete,
		Entity:   audit.EntityAppointment,
		EntityID: &id,
		Details:  "appointment deleted",
	})

	return nil
}
