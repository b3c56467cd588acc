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

// ======================================================
// INPUT
// ======================================================

// UpdateAppointmentInput carries only the fields the caller sent; nil means
// "leave as is".
type UpdateAppointmentInput struct {
	Actor audit.Actor
	ID    uuid.UUID

	ClientID  *string
	ServiceID *string
	Date      *string
	StartTime *string
	Status    *string
	Notes     *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo    domain.Repository
	guard   *SlotGuard
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
}

func NewUpdateAppointment(
	repo domain.Repository,
	guard *SlotGuard,
	audit *audit.Dispatcher,
	m *metrics.SchedulingMetrics,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:    repo,
		guard:   guard,
		audit:   audit,
		metrics: m,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute builds the next state on a copy of the stored appointment and only
// writes it once every field and the slot have been validated. Only the
// fields the caller sent are written, and the stored result is returned. A
// failure leaves the stored appointment untouched.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (ap *models.Appointment, err error) {
	defer func() { uc.metrics.ObserveOperation("update", err) }()

	current, err := loadAppointment(ctx, uc.repo, in.ID)
	if err != nil {
		return nil, err
	}

	next := *current
	var fields []domain.Field

	// --------------------------------------------------
	// Client
	// --------------------------------------------------
	if in.ClientID != nil {
		client, err := resolveClient(ctx, uc.repo, *in.ClientID)
		if err != nil {
			return nil, err
		}
		next.ClientID = client.ID
		next.Client = *client
		fields = append(fields, domain.FieldClient)
	}

	// --------------------------------------------------
	// Service: new price snapshot and end time
	// --------------------------------------------------
	if in.ServiceID != nil {
		service, err := resolveService(ctx, uc.repo, *in.ServiceID)
		if err != nil {
			return nil, err
		}
		domain.AssignService(&next, service)

		start := next.StartTime
		if in.StartTime != nil {
			start = *in.StartTime
		}
		if err := domain.Reschedule(&next, start, service.DurationMin); err != nil {
			return nil, err
		}
		fields = append(fields, domain.FieldService, domain.FieldSchedule)
	}

	// --------------------------------------------------
	// Date
	// --------------------------------------------------
	if in.Date != nil {
		date, err := domain.ParseCalendarDate(*in.Date)
		if err != nil {
			return nil, err
		}
		next.Date = date.Time()
		fields = append(fields, domain.FieldSchedule)
	}

	// --------------------------------------------------
	// Start time, end recomputed from the current service
	// --------------------------------------------------
	if in.StartTime != nil {
		// A missing service rejects the new start time instead of keeping a
		// stale end time.
		service, err := uc.currentService(ctx, &next)
		if err != nil {
			return nil, err
		}
		if err := domain.Reschedule(&next, *in.StartTime, service.DurationMin); err != nil {
			return nil, err
		}
		fields = append(fields, domain.FieldSchedule)
	}

	// --------------------------------------------------
	// Status and notes
	// --------------------------------------------------
	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		next.Status = string(status)
		fields = append(fields, domain.FieldStatus)
	}

	if in.Notes != nil {
		next.Notes = *in.Notes
		fields = append(fields, domain.FieldNotes)
	}

	// --------------------------------------------------
	// Persist
	// --------------------------------------------------
	write := updateWrite(fields)
	if reschedules(in) {
		err = uc.guard.Reserve(ctx, uc.repo, "update", &next, write)
	} else {
		err = write(ctx, uc.repo, &next)
	}
	if err != nil {
		return nil, persistError(err)
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    in.Actor,
		Action:   audit.ActionAppointmentUpdate,
		Entity:   audit.EntityAppointment,
		EntityID: &next.ID,
		Details: fmt.Sprintf("appointment updated: %s - %s",
			next.Client.FirstName, next.Service.Name),
	})

	return loadAppointment(ctx, uc.repo, next.ID)
}

// currentService is the service the candidate points at. The preloaded one is
// reused unless the reference changed without it.
func (uc *UpdateAppointment) currentService(
	ctx context.Context,
	next *models.Appointment,
) (*models.Service, error) {
	if next.Service.ID == next.ServiceID && next.ServiceID != uuid.Nil {
		svc := next.Service
		return &svc, nil
	}
	svc, err := uc.repo.GetService(ctx, next.ServiceID)
	if err != nil {
		if isNotFound(err) {
			return nil, errInvalidService
		}
		return nil, err
	}
	return svc, nil
}

// reschedules reports whether the caller sent a date or a start time. Those
// updates are checked for overlap even when the values are unchanged; a
// service change alone is not.
func reschedules(in UpdateAppointmentInput) bool {
	return in.Date != nil || in.StartTime != nil
}

func updateWrite(fields []domain.Field) writeFunc {
	return func(ctx context.Context, tx domain.Repository, ap *models.Appointment) error {
		return tx.UpdateAppointment(ctx, ap, fields...)
	}
}
