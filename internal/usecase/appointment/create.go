package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Actor audit.Actor

	ClientID  string
	ServiceID string
	Date      string
	StartTime string
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	guard   *SlotGuard
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
}

func NewCreateAppointment(
	repo domain.Repository,
	guard *SlotGuard,
	audit *audit.Dispatcher,
	m *metrics.SchedulingMetrics,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		guard:   guard,
		audit:   audit,
		metrics: m,
	}
}

var errCreateRequired = httperr.ErrValidation(
	"required_fields",
	"client, service, date and time are required",
)

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {
	defer func() { uc.metrics.ObserveOperation("create", err) }()

	if strings.TrimSpace(in.ClientID) == "" ||
		strings.TrimSpace(in.ServiceID) == "" ||
		strings.TrimSpace(in.Date) == "" ||
		strings.TrimSpace(in.StartTime) == "" {
		return nil, errCreateRequired
	}

	// --------------------------------------------------
	// Client
	// --------------------------------------------------
	client, err := resolveClient(ctx, uc.repo, in.ClientID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Service
	// --------------------------------------------------
	service, err := resolveService(ctx, uc.repo, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Slot
	// --------------------------------------------------
	date, err := domain.ParseCalendarDate(in.Date)
	if err != nil {
		return nil, err
	}

	ap, err = domain.New(client.ID, service, date, in.StartTime, in.Notes)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Check + write under the day lock
	// --------------------------------------------------
	if err := uc.guard.Reserve(ctx, uc.repo, "create", ap, createWrite); err != nil {
		return nil, err
	}
	ap.Client = *client

	uc.audit.Dispatch(audit.Event{
		Actor:    in.Actor,
		Action:   audit.ActionAppointmentCreate,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Details: fmt.Sprintf("appointment created: %s - %s on %s",
			client.ShortName(), service.Name, date),
	})

	return ap, nil
}

func createWrite(ctx context.Context, tx domain.Repository, ap *models.Appointment) error {
	return tx.CreateAppointment(ctx, ap)
}

// --------------------------------------------------
// Lookups shared by create and update
// --------------------------------------------------

var (
	errInvalidClient  = httperr.ErrValidation("invalid_client", "invalid client")
	errInvalidService = httperr.ErrValidation("invalid_service", "invalid service")
	errNotFound       = httperr.ErrNotFound("appointment_not_found", "appointment not found")
)

func resolveClient(ctx context.Context, repo domain.ClientLookup, raw string) (*models.Client, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errInvalidClient
	}
	client, err := repo.GetClient(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errInvalidClient
		}
		return nil, err
	}
	return client, nil
}

func resolveService(ctx context.Context, repo domain.ServiceLookup, raw string) (*models.Service, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errInvalidService
	}
	service, err := repo.GetService(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errInvalidService
		}
		return nil, err
	}
	return service, nil
}

func loadAppointment(ctx context.Context, repo domain.AppointmentStore, id uuid.UUID) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	return ap, nil
}

// persistError maps a write that found no row to the not-found answer. The
// appointment was deleted after it was loaded.
func persistError(err error) error {
	if isNotFound(err) {
		return errNotFound
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}
