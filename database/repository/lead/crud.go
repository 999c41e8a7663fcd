package leadRepo

import (
	"context"
	"errors"
	"time"

	"solarbot/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrLeadNotFound = errors.New("lead not found")

func (r *mongoLeadRepo) Upsert(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	if lead.EventID == "" {
		return nil, errors.New("lead requires an event id")
	}
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored models.Lead
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"event_id": lead.EventID},
		bson.M{"$setOnInsert": lead},
		opts,
	).Decode(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *mongoLeadRepo) GetByEventID(ctx context.Context, eventID string) (*models.Lead, error) {
	var lead models.Lead
	err := r.coll.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *mongoLeadRepo) SetAirtableID(ctx context.Context, id, airtableID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"airtable_id": airtableID, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrLeadNotFound
	}
	return nil
}
