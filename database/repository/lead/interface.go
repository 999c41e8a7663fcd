package leadRepo

import (
	"context"
	"fmt"
	"time"

	"solarbot/database"
	"solarbot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadRepository interface {
	// Upsert stores a lead keyed by its calendar event. Repeated calls for the
	// same event return the existing lead.
	Upsert(ctx context.Context, lead models.Lead) (*models.Lead, error)
	GetByEventID(ctx context.Context, eventID string) (*models.Lead, error)
	SetAirtableID(ctx context.Context, id, airtableID string) error
}

type mongoLeadRepo struct {
	coll *mongo.Collection
}

// NewMongoLeadRepo returns a LeadRepository backed by the global MongoClient.
func NewMongoLeadRepo() (LeadRepository, error) {
	if database.MongoClient == nil {
		return nil, fmt.Errorf("mongo client not initialized")
	}
	r := &mongoLeadRepo{coll: database.MongoClient.Database(database.DatabaseName()).Collection("leads")}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *mongoLeadRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create lead indexes: %w", err)
	}
	return nil
}
