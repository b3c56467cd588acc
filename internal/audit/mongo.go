package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type auditDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user,omitempty"`
	Action    string    `bson:"action"`
	Entity    string    `bson:"entity,omitempty"`
	EntityID  string    `bson:"entityId,omitempty"`
	Details   string    `bson:"details,omitempty"`
	IP        string    `bson:"ip"`
	UserAgent string    `bson:"userAgent"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MongoWriter writes audit events to a collection, for deployments running
// the mongo store.
type MongoWriter struct {
	coll *mongo.Collection
}

func NewMongoWriter(coll *mongo.Collection) *MongoWriter {
	return &MongoWriter{coll: coll}
}

func (w *MongoWriter) Write(ctx context.Context, ev Event) error {
	doc := auditDocument{
		ID:        uuid.NewString(),
		UserID:    ev.Actor.UserID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		Details:   ev.Details,
		IP:        ev.Actor.IP,
		UserAgent: ev.Actor.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	if ev.EntityID != nil {
		doc.EntityID = ev.EntityID.String()
	}
	_, err := w.coll.InsertOne(ctx, doc)
	return err
}
