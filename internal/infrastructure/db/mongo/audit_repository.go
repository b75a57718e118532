package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hdfops/field-console/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository persists the authentication audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID     string `bson:"_id"`
	Kind   string `bson:"kind"`
	Email  string `bson:"email,omitempty"`
	UserID string `bson:"user_id,omitempty"`
	Reason string `bson:"reason,omitempty"`
	At     int64  `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := auditDoc{
		ID:     event.ID,
		Kind:   string(event.Kind),
		Email:  event.Email,
		UserID: event.UserID,
		Reason: event.Reason,
		At:     event.At.UnixMilli(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var events []domain.AuthEvent
	for cur.Next(ctx) {
		var doc auditDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode auth event: %w", err)
		}
		events = append(events, domain.AuthEvent{
			ID:     doc.ID,
			Kind:   domain.AuthEventKind(doc.Kind),
			Email:  doc.Email,
			UserID: doc.UserID,
			Reason: doc.Reason,
			At:     time.UnixMilli(doc.At).UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	return events, nil
}
