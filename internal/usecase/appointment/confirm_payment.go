package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type ConfirmPayment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
	now     func() time.Time
}

func NewConfirmPayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.SchedulingMetrics,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:    repo,
		audit:   audit,
		metrics: m,
		now:     time.Now,
	}
}

// Execute records an in-person payment. The appointment becomes confirmed
// even when it was cancelled or already completed.
func (uc *ConfirmPayment) Execute(
	ctx context.Context,
	actor audit.Actor,
	id uuid.UUID,
	rawMethod string,
) (ap *models.Appointment, err error) {
	defer func() { uc.metrics.ObserveOperation("payment", err) }()

	ap, err = loadAppointment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	method, err := domain.ParsePaymentMethod(rawMethod)
	if err != nil {
		return nil, err
	}

	domain.ConfirmPayment(ap, method, uc.now())

	if err := uc.repo.UpdateAppointment(ctx, ap, domain.FieldPayment, domain.FieldStatus); err != nil {
		return nil, persistError(err)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   audit.ActionAppointmentPayment,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Details: fmt.Sprintf("payment confirmed: %s - %s (%s)",
			ap.Client.FirstName, ap.Service.Name, method),
	})

	return ap, nil
}
