package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// replaceTimeout bounds a whole delete-and-insert transaction.
const replaceTimeout = 2 * time.Minute

// ReservationRepository implements ports.ReservationRepository using MongoDB.
// The replace operations run in multi-document transactions and therefore
// need a replica set or sharded cluster.
type ReservationRepository struct {
	client       *mongo.Client
	amenities    *mongo.Collection
	reservations *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{
		client:       db.Client(),
		amenities:    db.Collection(collectionAmenities),
		reservations: db.Collection(collectionReservations),
	}
}

type amenityDoc struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

type reservationDoc struct {
	ID        int64 `bson:"_id"`
	AmenityID int64 `bson:"amenity_id"`
	UserID    int64 `bson:"user_id"`
	StartTime int   `bson:"start_time"`
	EndTime   int   `bson:"end_time"`
	Date      int64 `bson:"date"`
}

func (d reservationDoc) toDomain() domain.Reservation {
	return domain.Reservation{
		ID:        d.ID,
		AmenityID: d.AmenityID,
		UserID:    d.UserID,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Date:      d.Date,
	}
}

type amenityReservationDoc struct {
	Reservation reservationDoc `bson:",inline"`
	AmenityName string         `bson:"amenity_name"`
}

// amenityDayPipeline matches one (amenity, day) bucket and joins the amenity
// name. Reservations whose amenity is missing are dropped, like an inner join.
func amenityDayPipeline(amenityID, dayBucket int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "amenity_id", Value: amenityID}, {Key: "date", Value: dayBucket}}}},
		{{Key: "$sort", Value: bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionAmenities},
			{Key: "localField", Value: "amenity_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "amenity"},
		}}},
		{{Key: "$unwind", Value: "$amenity"}},
		{{Key: "$addFields", Value: bson.D{{Key: "amenity_name", Value: "$amenity.name"}}}},
		{{Key: "$project", Value: bson.D{{Key: "amenity", Value: 0}}}},
	}
}

func (r *ReservationRepository) FindByAmenityAndDay(ctx context.Context, amenityID, dayBucket int64) ([]domain.AmenityReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.reservations.Aggregate(ctx, amenityDayPipeline(amenityID, dayBucket))
	if err != nil {
		return nil, fmt.Errorf("aggregate reservations: %w", err)
	}
	var docs []amenityReservationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}

	out := make([]domain.AmenityReservation, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.AmenityReservation{Reservation: d.Reservation.toDomain(), AmenityName: d.AmenityName})
	}
	return out, nil
}

func (r *ReservationRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.reservations.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reservations: %w", err)
	}
	var docs []reservationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}

	out := make([]domain.Reservation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ReservationRepository) AmenityIDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.amenities.Find(ctx, bson.D{}, options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find amenities: %w", err)
	}
	var docs []amenityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode amenities: %w", err)
	}

	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *ReservationRepository) ReplaceAmenities(ctx context.Context, amenities []domain.Amenity) error {
	docs := make([]any, 0, len(amenities))
	for _, a := range amenities {
		docs = append(docs, amenityDoc{ID: a.ID, Name: a.Name})
	}
	return r.replaceAll(ctx, r.amenities, docs)
}

func (r *ReservationRepository) ReplaceReservations(ctx context.Context, reservations []domain.Reservation) error {
	docs := make([]any, 0, len(reservations))
	for _, res := range reservations {
		docs = append(docs, reservationDoc{
			ID:        res.ID,
			AmenityID: res.AmenityID,
			UserID:    res.UserID,
			StartTime: res.StartTime,
			EndTime:   res.EndTime,
			Date:      res.Date,
		})
	}
	return r.replaceAll(ctx, r.reservations, docs)
}

func (r *ReservationRepository) replaceAll(ctx context.Context, coll *mongo.Collection, docs []any) error {
	ctx, cancel := context.WithTimeout(ctx, replaceTimeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := coll.DeleteMany(sc, bson.D{}); err != nil {
			return nil, fmt.Errorf("clear %s: %w", coll.Name(), err)
		}
		if len(docs) == 0 {
			return nil, nil
		}
		if _, err := coll.InsertMany(sc, docs); err != nil {
			return nil, fmt.Errorf("insert %s: %w", coll.Name(), err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", coll.Name(), err)
	}
	return nil
}
