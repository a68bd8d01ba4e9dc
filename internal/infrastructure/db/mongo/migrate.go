package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// codeNamespaceExists is returned by create when the collection is already there.
const codeNamespaceExists = 48

// Migrator creates the collections and indexes the repositories rely on.
type Migrator struct {
	db *mongo.Database
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{db: db}
}

// Migrate is idempotent. Collections are created up front because older
// servers cannot create them inside a multi-document transaction.
func (m *Migrator) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, name := range []string{collectionUsers, collectionCounters, collectionAmenities, collectionReservations} {
		if err := m.db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}

	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_username"),
			},
		},
		collectionReservations: {
			{
				Keys:    bson.D{{Key: "amenity_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start_time", Value: 1}},
				Options: options.Index().SetName("idx_reservation_amenity_date"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start_time", Value: 1}},
				Options: options.Index().SetName("idx_reservation_user_date"),
			},
		},
	}
	for coll, models := range indexes {
		if _, err := m.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == codeNamespaceExists
}
