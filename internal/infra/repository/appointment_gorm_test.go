package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Service{}, &models.Appointment{}))
	return db
}

type fixture struct {
	db      *gorm.DB
	repo    *AppointmentGormRepository
	client  models.Client
	service models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	client := models.Client{DocumentNumber: "70112233", FirstName: "Ana", LastName: "Quispe", Phone: "999111222"}
	require.NoError(t, db.Create(&client).Error)

	service := models.Service{Name: "Masaje relajante", DurationMin: 60, Price: decimal.NewFromInt(50)}
	require.NoError(t, db.Create(&service).Error)

	return &fixture{db: db, repo: NewAppointmentGormRepository(db), client: client, service: service}
}

func mustDate(t *testing.T, s string) domain.CalendarDate {
	t.Helper()
	d, err := domain.ParseCalendarDate(s)
	require.NoError(t, err)
	return d
}

func (f *fixture) book(t *testing.T, date, start, end string, mutate ...func(*models.Appointment)) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		ClientID:  f.client.ID,
		ServiceID: f.service.ID,
		Date:      mustDate(t, date).Time(),
		StartTime: start,
		EndTime:   end,
		Status:    string(domain.StatusPending),
		Price:     f.service.Price,
	}
	for _, m := range mutate {
		m(ap)
	}
	require.NoError(t, f.repo.CreateAppointment(context.Background(), ap))
	return ap
}

func TestFindOverlapHalfOpenIntervals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := f.book(t, "2026-03-10", "09:00", "10:00")

	tests := []struct {
		name     string
		start    string
		end      string
		conflict bool
	}{
		{"ends when existing starts", "08:00", "09:00", false},
		{"starts when existing ends", "10:00", "11:00", false},
		{"overlaps the tail", "09:30", "10:30", true},
		{"overlaps the head", "08:30", "09:30", true},
		{"inside", "09:15", "09:45", true},
		{"covers", "08:00", "11:00", true},
		{"same window", "09:00", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.repo.FindOverlap(ctx, domain.OverlapQuery{
				Date:      mustDate(t, "2026-03-10"),
				StartTime: tt.start,
				EndTime:   tt.end,
			})
			require.NoError(t, err)
			if tt.conflict {
				require.NotNil(t, got)
				assert.Equal(t, existing.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestFindOverlapIgnoresInactiveOtherDaysAndSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, "2026-03-10", "09:00", "10:00", func(ap *models.Appointment) { ap.Status = string(domain.StatusCancelled) })
	f.book(t, "2026-03-10", "09:00", "10:00", func(ap *models.Appointment) { ap.Status = string(domain.StatusNoShow) })
	f.book(t, "2026-03-11", "09:00", "10:00")
	self := f.book(t, "2026-03-10", "09:30", "10:30", func(ap *models.Appointment) { ap.Status = string(domain.StatusCompleted) })

	q := domain.OverlapQuery{Date: mustDate(t, "2026-03-10"), StartTime: "09:00", EndTime: "10:00"}

	got, err := f.repo.FindOverlap(ctx, q)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, self.ID, got.ID)

	q.ExcludeID = self.ID
	got, err = f.repo.FindOverlap(ctx, q)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListPaidInWindowDayBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	paid := func(ap *models.Appointment) { ap.IsPaid = true }

	lastInstant := f.book(t, "2026-02-01", "18:00", "19:00", paid, func(ap *models.Appointment) {
		ap.Date = time.Date(2026, 2, 1, 23, 59, 59, 999_000_000, time.UTC)
	})
	f.book(t, "2026-02-02", "08:00", "09:00", paid)
	first := f.book(t, "2026-02-01", "08:00", "09:00", paid)
	f.book(t, "2026-02-01", "10:00", "11:00")
	f.book(t, "2026-02-01", "12:00", "13:00", paid, func(ap *models.Appointment) { ap.Status = string(domain.StatusCancelled) })
	noShow := f.book(t, "2026-02-01", "14:00", "15:00", paid, func(ap *models.Appointment) { ap.Status = string(domain.StatusNoShow) })

	day := mustDate(t, "2026-02-01")
	got, err := f.repo.ListPaidInWindow(ctx, domain.RangeWindow(day, day))
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(got))
	for _, ap := range got {
		ids = append(ids, ap.ID)
	}
	assert.Equal(t, []uuid.UUID{first.ID, noShow.ID, lastInstant.ID}, ids)
	assert.Equal(t, "Ana", got[0].Client.FirstName)
	assert.Equal(t, "Masaje relajante", got[0].Service.Name)
}

func TestListAppointmentsFiltersSortAndPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := models.Client{DocumentNumber: "40998877", FirstName: "Luis", LastName: "Ramos"}
	require.NoError(t, f.db.Create(&other).Error)

	a := f.book(t, "2026-03-10", "09:00", "10:00")
	b := f.book(t, "2026-03-10", "11:00", "12:00", func(ap *models.Appointment) { ap.Status = string(domain.StatusConfirmed) })
	c := f.book(t, "2026-03-12", "09:00", "10:00", func(ap *models.Appointment) { ap.ClientID = other.ID })

	all, total, err := f.repo.ListAppointments(ctx, domain.ListFilter{Page: domain.NewPage(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{c.ID, b.ID, a.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	page2, total, err := f.repo.ListAppointments(ctx, domain.ListFilter{Page: domain.NewPage(2, 2)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page2, 1)
	assert.Equal(t, a.ID, page2[0].ID)

	byStatus, total, err := f.repo.ListAppointments(ctx, domain.ListFilter{Status: "confirmed", Page: domain.NewPage(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, b.ID, byStatus[0].ID)

	day := mustDate(t, "2026-03-12")
	byDate, _, err := f.repo.ListAppointments(ctx, domain.ListFilter{Date: &day, Page: domain.NewPage(1, 10)})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, c.ID, byDate[0].ID)

	ids, err := f.repo.FindClientIDs(ctx, "RAMOS")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{other.ID}, ids)

	byClient, total, err := f.repo.ListAppointments(ctx, domain.ListFilter{ClientIDs: ids, Page: domain.NewPage(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, c.ID, byClient[0].ID)

	none, total, err := f.repo.ListAppointments(ctx, domain.ListFilter{ClientIDs: []uuid.UUID{}, Page: domain.NewPage(1, 10)})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestFindClientIDsMatchesDocumentNumber(t *testing.T) {
	f := newFixture(t)

	ids, err := f.repo.FindClientIDs(context.Background(), "1122")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.client.ID}, ids)

	ids, err = f.repo.FindClientIDs(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFindClientIDsMatchesWildcardsLiterally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	odd := models.Client{DocumentNumber: "55_100%", FirstName: "Rosa", LastName: "Mamani"}
	require.NoError(t, f.db.Create(&odd).Error)

	for _, search := range []string{"%", "_", "5_1", "100%"} {
		ids, err := f.repo.FindClientIDs(ctx, search)
		require.NoError(t, err, search)
		assert.Equal(t, []uuid.UUID{odd.ID}, ids, search)
	}

	ids, err := f.repo.FindClientIDs(ctx, "7_1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUpdateAppointmentWritesOnlyNamedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "2026-03-10", "09:00", "10:00")

	stale, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)

	paid, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	paidAt := time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC)
	domain.ConfirmPayment(paid, domain.PaymentCard, paidAt)
	require.NoError(t, f.repo.UpdateAppointment(ctx, paid, domain.FieldPayment, domain.FieldStatus))

	stale.Notes = "late arrival"
	require.NoError(t, f.repo.UpdateAppointment(ctx, stale, domain.FieldNotes))

	stored, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "late arrival", stored.Notes)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, "card", stored.PaymentMethod)
	assert.Equal(t, "confirmed", stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.True(t, paidAt.Equal(*stored.PaidAt))
}

func TestUpdateAppointmentDoesNotRecreateDeletedRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "2026-03-10", "09:00", "10:00")

	loaded, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	require.NoError(t, f.repo.DeleteAppointment(ctx, ap.ID))

	domain.ConfirmPayment(loaded, domain.PaymentCash, time.Now())
	err = f.repo.UpdateAppointment(ctx, loaded, domain.FieldPayment, domain.FieldStatus)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetUpdateDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, "2026-03-10", "09:00", "10:00")

	loaded, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quispe", loaded.Client.LastName)
	assert.True(t, decimal.NewFromInt(50).Equal(loaded.Price))
	assert.Equal(t, "2026-03-10", domain.DateOf(loaded.Date).String())

	loaded.Notes = "bring towel"
	require.NoError(t, f.repo.UpdateAppointment(ctx, loaded, domain.FieldNotes))

	reloaded, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "bring towel", reloaded.Notes)

	var services int64
	require.NoError(t, f.db.Model(&models.Service{}).Count(&services).Error)
	assert.EqualValues(t, 1, services)

	require.NoError(t, f.repo.DeleteAppointment(ctx, ap.ID))
	_, err = f.repo.GetAppointment(ctx, ap.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.ErrorIs(t, f.repo.DeleteAppointment(ctx, ap.ID), domain.ErrRecordNotFound)

	var clients int64
	require.NoError(t, f.db.Model(&models.Client{}).Count(&clients).Error)
	assert.EqualValues(t, 1, clients)
}

func TestLookupsReportMissingRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.repo.GetClient(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	_, err = f.repo.GetService(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	svc, err := f.repo.GetService(ctx, f.service.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, svc.DurationMin)
}

func TestTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap := &models.Appointment{
			ClientID:  f.client.ID,
			ServiceID: f.service.ID,
			Date:      mustDate(t, "2026-03-10").Time(),
			StartTime: "09:00",
			EndTime:   "10:00",
			Status:    "pending",
			Price:     f.service.Price,
		}
		require.NoError(t, tx.CreateAppointment(ctx, ap))
		return domain.ErrSlotTaken
	})
	require.ErrorIs(t, err, domain.ErrSlotTaken)

	var count int64
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)
}
