package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

const (
	MongoCollectionClients      = "clients"
	MongoCollectionServices     = "services"
	MongoCollectionAppointments = "appointments"
)

type clientDocument struct {
	ID             string    `bson:"_id"`
	DocumentType   string    `bson:"documentType"`
	DocumentNumber string    `bson:"documentNumber"`
	FirstName      string    `bson:"firstName"`
	LastName       string    `bson:"lastName"`
	SecondLastName string    `bson:"secondLastName,omitempty"`
	Phone          string    `bson:"phone,omitempty"`
	Email          string    `bson:"email,omitempty"`
	IsActive       bool      `bson:"isActive"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

type serviceDocument struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	Duration    int                  `bson:"duration"`
	Price       primitive.Decimal128 `bson:"price"`
	Active      bool                 `bson:"isActive"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type appointmentDocument struct {
	ID            string               `bson:"_id"`
	Client        string               `bson:"client"`
	Service       string               `bson:"service"`
	Date          time.Time            `bson:"date"`
	StartTime     string               `bson:"startTime"`
	EndTime       string               `bson:"endTime"`
	Status        string               `bson:"status"`
	Price         primitive.Decimal128 `bson:"price"`
	IsPaid        bool                 `bson:"isPaid"`
	PaymentMethod string               `bson:"paymentMethod,omitempty"`
	PaidAt        *time.Time           `bson:"paidAt,omitempty"`
	Notes         string               `bson:"notes,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

// AppointmentMongoRepository stores appointments as documents referencing
// client and service by id. Without a replica set there are no multi-document
// transactions; the per-day lock held by the caller provides exclusion.
type AppointmentMongoRepository struct {
	clients      *mongo.Collection
	services     *mongo.Collection
	appointments *mongo.Collection
	now          func() time.Time
}

func NewAppointmentMongoRepository(db *mongo.Database) *AppointmentMongoRepository {
	return &AppointmentMongoRepository{
		clients:      db.Collection(MongoCollectionClients),
		services:     db.Collection(MongoCollectionServices),
		appointments: db.Collection(MongoCollectionAppointments),
		now:          time.Now,
	}
}

// EnsureIndexes creates the slot index and the storage level guard against
// two active appointments holding the exact same window.
func (r *AppointmentMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.appointments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}, {Key: "endTime", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": domain.ActiveStatusValues()},
				}),
		},
		{
			Keys: bson.D{{Key: "client", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("repository: appointment indexes: %w", err)
	}

	_, err = r.clients.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "documentNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("repository: client indexes: %w", err)
	}
	return nil
}

func (r *AppointmentMongoRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return fn(r)
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentMongoRepository) GetClient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Client, error) {

	var doc clientDocument
	if err := r.clients.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, mongoNotFound(err, "client")
	}
	c := doc.toModel()
	return &c, nil
}

func (r *AppointmentMongoRepository) FindClientIDs(
	ctx context.Context,
	search string,
) ([]uuid.UUID, error) {

	cur, err := r.clients.Find(ctx, clientSearchFilter(search),
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("repository: search clients: %w", err)
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repository: search clients: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentMongoRepository) GetService(
	ctx context.Context,
	id uuid.UUID,
) (*models.Service, error) {

	var doc serviceDocument
	if err := r.services.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, mongoNotFound(err, "service")
	}
	s := doc.toModel()
	return &s, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentMongoRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var doc appointmentDocument
	if err := r.appointments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, mongoNotFound(err, "appointment")
	}

	aps, err := r.populate(ctx, []appointmentDocument{doc})
	if err != nil {
		return nil, err
	}
	return &aps[0], nil
}

func (r *AppointmentMongoRepository) FindOverlap(
	ctx context.Context,
	q domain.OverlapQuery,
) (*models.Appointment, error) {

	var doc appointmentDocument
	err := r.appointments.FindOne(ctx, overlapFilter(q),
		options.FindOne().SetSort(bson.D{{Key: "startTime", Value: 1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: overlap query: %w", err)
	}

	ap := doc.toModel()
	return &ap, nil
}

func (r *AppointmentMongoRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	now := r.now().UTC()
	ap.CreatedAt = now
	ap.UpdatedAt = now

	doc, err := newAppointmentDocument(ap)
	if err != nil {
		return err
	}
	if _, err := r.appointments.InsertOne(ctx, doc); err != nil {
		return mongoWriteError(err, "create appointment")
	}
	return nil
}

func (r *AppointmentMongoRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	fields ...domain.Field,
) error {
	ap.UpdatedAt = r.now().UTC()

	set, err := appointmentSet(ap, fields)
	if err != nil {
		return err
	}

	res, err := r.appointments.UpdateOne(ctx, bson.M{"_id": ap.ID.String()}, bson.M{"$set": set})
	if err != nil {
		return mongoWriteError(err, "update appointment")
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("repository: appointment: %w", domain.ErrRecordNotFound)
	}
	return nil
}

func (r *AppointmentMongoRepository) DeleteAppointment(
	ctx context.Context,
	id uuid.UUID,
) error {
	res, err := r.appointments.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("repository: delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repository: appointment: %w", domain.ErrRecordNotFound)
	}
	return nil
}

func (r *AppointmentMongoRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	filter := listFilter(f)

	total, err := r.appointments.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: count appointments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "startTime", Value: -1}}).
		SetSkip(int64(f.Page.Offset())).
		SetLimit(int64(f.Page.Limit))

	docs, err := r.findAppointments(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: list appointments: %w", err)
	}

	aps, err := r.populate(ctx, docs)
	if err != nil {
		return nil, 0, err
	}
	return aps, total, nil
}

func (r *AppointmentMongoRepository) ListPaidInWindow(
	ctx context.Context,
	w domain.Window,
) ([]models.Appointment, error) {

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})

	docs, err := r.findAppointments(ctx, paidWindowFilter(w), opts)
	if err != nil {
		return nil, fmt.Errorf("repository: calendar appointments: %w", err)
	}
	return r.populate(ctx, docs)
}

func (r *AppointmentMongoRepository) findAppointments(
	ctx context.Context,
	filter bson.M,
	opts *options.FindOptions,
) ([]appointmentDocument, error) {
	cur, err := r.appointments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []appointmentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// populate resolves client and service references with one query each.
func (r *AppointmentMongoRepository) populate(
	ctx context.Context,
	docs []appointmentDocument,
) ([]models.Appointment, error) {

	if len(docs) == 0 {
		return []models.Appointment{}, nil
	}

	clientIDs := make([]string, 0, len(docs))
	serviceIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		clientIDs = append(clientIDs, d.Client)
		serviceIDs = append(serviceIDs, d.Service)
	}

	clients := map[string]clientDocument{}
	cur, err := r.clients.Find(ctx, bson.M{"_id": bson.M{"$in": clientIDs}})
	if err != nil {
		return nil, fmt.Errorf("repository: populate clients: %w", err)
	}
	var cs []clientDocument
	if err := cur.All(ctx, &cs); err != nil {
		return nil, fmt.Errorf("repository: populate clients: %w", err)
	}
	for _, c := range cs {
		clients[c.ID] = c
	}

	services := map[string]serviceDocument{}
	cur, err = r.services.Find(ctx, bson.M{"_id": bson.M{"$in": serviceIDs}})
	if err != nil {
		return nil, fmt.Errorf("repository: populate services: %w", err)
	}
	var ss []serviceDocument
	if err := cur.All(ctx, &ss); err != nil {
		return nil, fmt.Errorf("repository: populate services: %w", err)
	}
	for _, s := range ss {
		services[s.ID] = s
	}

	out := make([]models.Appointment, 0, len(docs))
	for _, d := range docs {
		ap := d.toModel()
		if c, ok := clients[d.Client]; ok {
			ap.Client = c.toModel()
		}
		if s, ok := services[d.Service]; ok {
			ap.Service = s.toModel()
		}
		out = append(out, ap)
	}
	return out, nil
}

// --------------------------------------------------
// Filters
// --------------------------------------------------

func overlapFilter(q domain.OverlapQuery) bson.M {
	w := q.Window()
	filter := bson.M{
		"date":      bson.M{"$gte": w.Start, "$lte": w.End},
		"status":    bson.M{"$nin": domain.InactiveStatusValues()},
		"startTime": bson.M{"$lt": q.EndTime},
		"endTime":   bson.M{"$gt": q.StartTime},
	}
	if q.ExcludeID != uuid.Nil {
		filter["_id"] = bson.M{"$ne": q.ExcludeID.String()}
	}
	return filter
}

func listFilter(f domain.ListFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Date != nil {
		w := domain.DayWindow(*f.Date)
		filter["date"] = bson.M{"$gte": w.Start, "$lte": w.End}
	}
	if f.ClientIDs != nil {
		filter["client"] = bson.M{"$in": idStrings(f.ClientIDs)}
	}
	return filter
}

func paidWindowFilter(w domain.Window) bson.M {
	return bson.M{
		"date":   bson.M{"$gte": w.Start, "$lte": w.End},
		"status": bson.M{"$ne": string(domain.StatusCancelled)},
		"isPaid": true,
	}
}

func clientSearchFilter(search string) bson.M {
	pattern := primitive.Regex{
		Pattern: regexp.QuoteMeta(strings.TrimSpace(search)),
		Options: "i",
	}
	return bson.M{
		"$or": []bson.M{
			{"firstName": pattern},
			{"lastName": pattern},
			{"documentNumber": pattern},
		},
	}
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func newAppointmentDocument(ap *models.Appointment) (appointmentDocument, error) {
	price, err := toDecimal128(ap.Price)
	if err != nil {
		return appointmentDocument{}, fmt.Errorf("repository: appointment price: %w", err)
	}
	return appointmentDocument{
		ID:            ap.ID.String(),
		Client:        ap.ClientID.String(),
		Service:       ap.ServiceID.String(),
		Date:          ap.Date.UTC(),
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		Status:        ap.Status,
		Price:         price,
		IsPaid:        ap.IsPaid,
		PaymentMethod: ap.PaymentMethod,
		PaidAt:        ap.PaidAt,
		Notes:         ap.Notes,
		CreatedAt:     ap.CreatedAt,
		UpdatedAt:     ap.UpdatedAt,
	}, nil
}

// appointmentSet is the $set document for the named field groups.
func appointmentSet(ap *models.Appointment, fields []domain.Field) (bson.M, error) {
	set := bson.M{"updatedAt": ap.UpdatedAt}
	for _, f := range fields {
		switch f {
		case domain.FieldClient:
			set["client"] = ap.ClientID.String()
		case domain.FieldService:
			price, err := toDecimal128(ap.Price)
			if err != nil {
				return nil, fmt.Errorf("repository: appointment price: %w", err)
			}
			set["service"] = ap.ServiceID.String()
			set["price"] = price
		case domain.FieldSchedule:
			set["date"] = ap.Date.UTC()
			set["startTime"] = ap.StartTime
			set["endTime"] = ap.EndTime
		case domain.FieldStatus:
			set["status"] = ap.Status
		case domain.FieldNotes:
			set["notes"] = ap.Notes
		case domain.FieldPayment:
			set["isPaid"] = ap.IsPaid
			set["paymentMethod"] = ap.PaymentMethod
			set["paidAt"] = ap.PaidAt
		}
	}
	return set, nil
}

func (d appointmentDocument) toModel() models.Appointment {
	ap := models.Appointment{
		ID:            parseID(d.ID),
		ClientID:      parseID(d.Client),
		ServiceID:     parseID(d.Service),
		Date:          d.Date.UTC(),
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		Status:        d.Status,
		Price:         fromDecimal128(d.Price),
		IsPaid:        d.IsPaid,
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.PaidAt != nil {
		paidAt := d.PaidAt.UTC()
		ap.PaidAt = &paidAt
	}
	return ap
}

func (d clientDocument) toModel() models.Client {
	return models.Client{
		ID:             parseID(d.ID),
		DocumentType:   d.DocumentType,
		DocumentNumber: d.DocumentNumber,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		SecondLastName: d.SecondLastName,
		Phone:          d.Phone,
		Email:          d.Email,
		IsActive:       d.IsActive,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (d serviceDocument) toModel() models.Service {
	return models.Service{
		ID:          parseID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		DurationMin: d.Duration,
		Price:       fromDecimal128(d.Price),
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) decimal.Decimal {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero
	}
	return out
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func mongoNotFound(err error, entity string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("repository: %s: %w", entity, domain.ErrRecordNotFound)
	}
	return fmt.Errorf("repository: load %s: %w", entity, err)
}

func mongoWriteError(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("repository: %s: %w", op, domain.ErrSlotTaken)
	}
	return fmt.Errorf("repository: %s: %w", op, err)
}

var _ domain.Repository = (*AppointmentMongoRepository)(nil)
