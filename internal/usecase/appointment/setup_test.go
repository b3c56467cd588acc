package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/spa-scheduler/internal/lock"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

type recordingWriter struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (w *recordingWriter) Write(ctx context.Context, ev audit.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, ev)
	return w.err
}

func (w *recordingWriter) snapshot() []audit.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]audit.Event(nil), w.events...)
}

type env struct {
	db      *gorm.DB
	reg     *prometheus.Registry
	repo    *repository.AppointmentGormRepository
	writer  *recordingWriter
	audit   *audit.Dispatcher
	metrics *metrics.SchedulingMetrics
	guard   *SlotGuard

	client  models.Client
	service models.Service

	create   *CreateAppointment
	update   *UpdateAppointment
	status   *UpdateAppointmentStatus
	pay      *ConfirmPayment
	remove   *DeleteAppointment
	get      *GetAppointment
	list     *ListAppointments
	calendar *ListCalendar
}

var actor = audit.Actor{UserID: "admin-1", IP: "10.0.0.7", UserAgent: "go-test"}

func newEnv(t *testing.T) *env {
	t.Helper()

	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Service{}, &models.Appointment{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	e := &env{
		db:     db,
		reg:    prometheus.NewRegistry(),
		repo:   repository.NewAppointmentGormRepository(db),
		writer: &recordingWriter{},
	}
	e.metrics = metrics.NewSchedulingMetrics(e.reg)
	log := zaptest.NewLogger(t)
	e.audit = audit.NewDispatcher(e.writer, log, e.metrics, 100)
	e.guard = NewSlotGuard(lock.NewLocal(), e.metrics, log)

	e.client = models.Client{DocumentNumber: "70112233", FirstName: "Ana", LastName: "Quispe", Phone: "999111222"}
	require.NoError(t, db.Create(&e.client).Error)

	e.service = models.Service{Name: "Facial", DurationMin: 90, Price: decimal.RequireFromString("120.00")}
	require.NoError(t, db.Create(&e.service).Error)

	e.create = NewCreateAppointment(e.repo, e.guard, e.audit, e.metrics)
	e.update = NewUpdateAppointment(e.repo, e.guard, e.audit, e.metrics)
	e.status = NewUpdateAppointmentStatus(e.repo, e.audit, e.metrics)
	e.pay = NewConfirmPayment(e.repo, e.audit, e.metrics)
	e.remove = NewDeleteAppointment(e.repo, e.audit, e.metrics)
	e.get = NewGetAppointment(e.repo)
	e.list = NewListAppointments(e.repo)
	e.calendar = NewListCalendar(e.repo)

	t.Cleanup(func() { _ = e.audit.Close(context.Background()) })
	return e
}

func (e *env) book(t *testing.T, date, start string) *models.Appointment {
	t.Helper()
	ap, err := e.create.Execute(context.Background(), CreateAppointmentInput{
		Actor:     actor,
		ClientID:  e.client.ID.String(),
		ServiceID: e.service.ID.String(),
		Date:      date,
		StartTime: start,
	})
	require.NoError(t, err)
	return ap
}

// auditEvents waits for the dispatcher to drain and returns what it wrote.
func (e *env) auditEvents(t *testing.T) []audit.Event {
	t.Helper()
	require.NoError(t, e.audit.Close(context.Background()))
	return e.writer.snapshot()
}

func strPtr(s string) *string { return &s }

// interleavingRepo runs afterGet once, right after the first appointment
// load, to simulate another request landing between read and write.
type interleavingRepo struct {
	*repository.AppointmentGormRepository
	once     sync.Once
	afterGet func()
}

func (r *interleavingRepo) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	ap, err := r.AppointmentGormRepository.GetAppointment(ctx, id)
	r.once.Do(r.afterGet)
	return ap, err
}
