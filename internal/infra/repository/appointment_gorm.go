package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		First(&client).Error; err != nil {
		return nil, notFound(err, "client")
	}
	return &client, nil
}

func (r *AppointmentGormRepository) FindClientIDs(
	ctx context.Context,
	search string,
) ([]uuid.UUID, error) {

	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(search))) + "%"

	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Select("id").
		Where(
			`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(document_number) LIKE ? ESCAPE '\'`,
			like, like, like,
		).
		Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("repository: search clients: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uuid.UUID,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		First(&service).Error; err != nil {
		return nil, notFound(err, "service")
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ?", id.String()).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) FindOverlap(
	ctx context.Context,
	q domain.OverlapQuery,
) (*models.Appointment, error) {

	w := q.Window()

	query := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", w.Start, w.End).
		Where("status NOT IN ?", domain.InactiveStatusValues()).
		Where("start_time < ? AND end_time > ?", q.EndTime, q.StartTime)

	if q.ExcludeID != uuid.Nil {
		query = query.Where("id <> ?", q.ExcludeID.String())
	}

	// Row locks only exist on postgres; sqlite serialises writers anyway.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var found []models.Appointment
	if err := query.
		Order("start_time ASC").
		Limit(1).
		Find(&found).Error; err != nil {
		return nil, fmt.Errorf("repository: overlap query: %w", err)
	}

	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error; err != nil {
		return writeError(err, "create appointment")
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	fields ...domain.Field,
) error {
	ap.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID.String()).
		Updates(appointmentColumns(ap, fields))
	if res.Error != nil {
		return writeError(res.Error, "update appointment")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: appointment: %w", domain.ErrRecordNotFound)
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uuid.UUID,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return fmt.Errorf("repository: delete appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repository: appointment: %w", domain.ErrRecordNotFound)
	}
	return nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	if f.Date != nil {
		w := domain.DayWindow(*f.Date)
		q = q.Where("date >= ? AND date <= ?", w.Start, w.End)
	}

	if f.ClientIDs != nil {
		q = q.Where("client_id IN ?", idStrings(f.ClientIDs))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("repository: count appointments: %w", err)
	}

	var aps []models.Appointment
	if err := q.
		Preload("Client").
		Preload("Service").
		Order("date DESC").
		Order("start_time DESC").
		Offset(f.Page.Offset()).
		Limit(f.Page.Limit).
		Find(&aps).Error; err != nil {
		return nil, 0, fmt.Errorf("repository: list appointments: %w", err)
	}

	return aps, total, nil
}

func (r *AppointmentGormRepository) ListPaidInWindow(
	ctx context.Context,
	w domain.Window,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("date >= ? AND date <= ?", w.Start, w.End).
		Where("status <> ?", string(domain.StatusCancelled)).
		Where("is_paid = ?", true).
		Order("date ASC").
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, fmt.Errorf("repository: calendar appointments: %w", err)
	}
	return aps, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("repository: %s: %w", entity, domain.ErrRecordNotFound)
	}
	return fmt.Errorf("repository: load %s: %w", entity, err)
}

func writeError(err error, op string) error {
	if httperr.IsExclusionConflict(err) {
		return fmt.Errorf("repository: %s: %w", op, domain.ErrSlotTaken)
	}
	return fmt.Errorf("repository: %s: %w", op, err)
}

func appointmentColumns(ap *models.Appointment, fields []domain.Field) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": ap.UpdatedAt}
	for _, f := range fields {
		switch f {
		case domain.FieldClient:
			cols["client_id"] = ap.ClientID
		case domain.FieldService:
			cols["service_id"] = ap.ServiceID
			cols["price"] = ap.Price
		case domain.FieldSchedule:
			cols["date"] = ap.Date
			cols["start_time"] = ap.StartTime
			cols["end_time"] = ap.EndTime
		case domain.FieldStatus:
			cols["status"] = ap.Status
		case domain.FieldNotes:
			cols["notes"] = ap.Notes
		case domain.FieldPayment:
			cols["is_paid"] = ap.IsPaid
			cols["payment_method"] = ap.PaymentMethod
			cols["paid_at"] = ap.PaidAt
		}
	}
	return cols
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes user text match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
