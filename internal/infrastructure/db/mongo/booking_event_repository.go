package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

// BookingEventRepository implements ports.BookingEventRepository using MongoDB.
type BookingEventRepository struct {
	col *mongo.Collection
}

// NewBookingEventRepository creates a new BookingEventRepository.
func NewBookingEventRepository(db *mongo.Database) *BookingEventRepository {
	return &BookingEventRepository{col: db.Collection(collectionBookingEvents)}
}

var _ ports.BookingEventRepository = (*BookingEventRepository)(nil)

// InsertEvent persists a booking event to the booking_events audit collection.
func (r *BookingEventRepository) InsertEvent(ctx context.Context, event *domain.BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":           event.ID,
		"kind":          string(event.Kind),
		"bookingId":     event.BookingID,
		"userId":        event.UserID,
		"concertId":     event.ConcertID,
		"delta":         event.Delta,
		"ticketsBooked": event.TicketsBooked,
		"occurredAt":    event.OccurredAt.UTC(),
		"processedAt":   time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		// already recorded
		return nil
	}
	return err
}

// EnsureIndexes creates the lookup indexes of the audit collection.
func (r *BookingEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "occurredAt", Value: 1}}},
		{Keys: bson.D{{Key: "concertId", Value: 1}, {Key: "occurredAt", Value: 1}}, Options: options.Index().SetName("concert_timeline")},
	})
	return err
}
