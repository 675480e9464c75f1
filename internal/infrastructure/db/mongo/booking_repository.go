package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

// BookingRepository implements ports.BookingRepository. Every inventory
// change runs in a transaction spanning the concerts, bookings and users
// collections.
type BookingRepository struct {
	client   *mongo.Client
	bookings *mongo.Collection
	concerts *mongo.Collection
	users    *mongo.Collection
	now      func() time.Time
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		client:   db.Client(),
		bookings: db.Collection(collectionBookings),
		concerts: db.Collection(collectionConcerts),
		users:    db.Collection(collectionUsers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

type mongoBooking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	Concert       primitive.ObjectID `bson:"concert"`
	TicketsBooked int                `bson:"ticketsBooked"`
	BookingDate   time.Time          `bson:"bookingDate"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (mb mongoBooking) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:            mb.ID.Hex(),
		UserID:        mb.User.Hex(),
		ConcertID:     mb.Concert.Hex(),
		TicketsBooked: mb.TicketsBooked,
		BookingDate:   mb.BookingDate.UTC(),
		CreatedAt:     mb.CreatedAt.UTC(),
		UpdatedAt:     mb.UpdatedAt.UTC(),
	}
}

// Reserve merges into or creates the pair's booking, then takes the tickets
// from the concert inventory. The cap is checked before the inventory so a
// fourth ticket reports ErrTooManyTickets even on a sold-out concert.
func (r *BookingRepository) Reserve(ctx context.Context, in ports.ReserveInput) (*ports.ReserveResult, error) {
	userID, err := objectID(in.UserID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	concertID, err := objectID(in.ConcertID, domain.ErrConcertNotFound)
	if err != nil {
		return nil, err
	}

	out, err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) (interface{}, error) {
		now := r.now()
		pair := bson.M{"user": userID, "concert": concertID}

		var existing mongoBooking
		err := r.bookings.FindOne(sc, pair).Decode(&existing)
		switch {
		case err == nil:
			if existing.TicketsBooked+in.Tickets > in.Limit {
				return nil, domain.ErrTooManyTickets
			}
		case isNoDocuments(err):
			existing = mongoBooking{}
		default:
			return nil, fmt.Errorf("find booking: %w", err)
		}

		if err := r.takeTickets(sc, concertID, in.Tickets, now); err != nil {
			return nil, err
		}

		if !existing.ID.IsZero() {
			var merged mongoBooking
			err := r.bookings.FindOneAndUpdate(sc,
				bson.M{"_id": existing.ID, "ticketsBooked": existing.TicketsBooked},
				bson.M{
					"$inc": bson.M{"ticketsBooked": in.Tickets},
					"$set": bson.M{"updatedAt": now},
				},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).Decode(&merged)
			if err != nil {
				return nil, fmt.Errorf("merge booking: %w", err)
			}
			return &ports.ReserveResult{Booking: merged.toDomain()}, nil
		}

		created := mongoBooking{
			ID:            primitive.NewObjectID(),
			User:          userID,
			Concert:       concertID,
			TicketsBooked: in.Tickets,
			BookingDate:   now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		res, err := r.users.UpdateOne(sc,
			bson.M{"_id": userID},
			bson.M{
				"$addToSet": bson.M{"ticketBooked": created.ID.Hex()},
				"$set":      bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("link booking to user: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrUserNotFound
		}
		if _, err := r.bookings.InsertOne(sc, created); err != nil {
			return nil, fmt.Errorf("insert booking: %w", err)
		}
		return &ports.ReserveResult{Booking: created.toDomain(), Created: true}, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*ports.ReserveResult), nil
}

// Adjust sets the pair's ticket count to newCount. A positive difference is
// taken from the concert inventory, a negative one is returned to it.
func (r *BookingRepository) Adjust(ctx context.Context, userID, concertID string, newCount int) (*ports.AdjustResult, error) {
	uid, err := objectID(userID, domain.ErrBookingNotFound)
	if err != nil {
		return nil, err
	}
	cid, err := objectID(concertID, domain.ErrBookingNotFound)
	if err != nil {
		return nil, err
	}

	out, err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) (interface{}, error) {
		now := r.now()

		var existing mongoBooking
		if err := r.bookings.FindOne(sc, bson.M{"user": uid, "concert": cid}).Decode(&existing); err != nil {
			if isNoDocuments(err) {
				return nil, domain.ErrBookingNotFound
			}
			return nil, fmt.Errorf("find booking: %w", err)
		}

		oldCount := existing.TicketsBooked
		if err := r.takeTickets(sc, cid, newCount-oldCount, now); err != nil {
			return nil, err
		}

		var updated mongoBooking
		err := r.bookings.FindOneAndUpdate(sc,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"ticketsBooked": newCount, "updatedAt": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			return nil, fmt.Errorf("update booking: %w", err)
		}

		var concert mongoConcert
		if err := r.concerts.FindOne(sc, bson.M{"_id": cid}).Decode(&concert); err != nil {
			return nil, fmt.Errorf("reload concert: %w", err)
		}

		return &ports.AdjustResult{
			Booking:  updated.toDomain(),
			Concert:  concert.toDomain(),
			OldCount: oldCount,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*ports.AdjustResult), nil
}

// Cancel deletes the booking, returns its tickets to the concert and unlinks
// it from the owning user. A concert that no longer exists is skipped.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID string) (*domain.Booking, error) {
	id, err := objectID(bookingID, domain.ErrBookingNotFound)
	if err != nil {
		return nil, err
	}

	out, err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) (interface{}, error) {
		now := r.now()

		var deleted mongoBooking
		if err := r.bookings.FindOneAndDelete(sc, bson.M{"_id": id}).Decode(&deleted); err != nil {
			if isNoDocuments(err) {
				return nil, domain.ErrBookingNotFound
			}
			return nil, fmt.Errorf("delete booking: %w", err)
		}

		if _, err := r.concerts.UpdateOne(sc,
			bson.M{"_id": deleted.Concert},
			bson.M{
				"$inc": bson.M{"availableTickets": deleted.TicketsBooked},
				"$set": bson.M{"updatedAt": now},
			},
		); err != nil {
			return nil, fmt.Errorf("restore inventory: %w", err)
		}

		if _, err := r.users.UpdateOne(sc,
			bson.M{"_id": deleted.User},
			bson.M{
				"$pull": bson.M{"ticketBooked": deleted.ID.Hex()},
				"$set":  bson.M{"updatedAt": now},
			},
		); err != nil {
			return nil, fmt.Errorf("unlink booking from user: %w", err)
		}

		return deleted.toDomain(), nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Booking), nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := objectID(id, domain.ErrBookingNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBooking
	if err := r.bookings.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return mb.toDomain(), nil
}

// ListByUser returns the user's bookings oldest first. An unknown or
// malformed user id yields an empty list.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.bookings.Find(ctx, bson.M{"user": uid},
		options.Find().SetSort(bson.D{{Key: "bookingDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var mb mongoBooking
		if err := cur.Decode(&mb); err != nil {
			return nil, err
		}
		out = append(out, mb.toDomain())
	}
	return out, cur.Err()
}

// takeTickets moves delta tickets out of the concert inventory (or back in
// when negative). The filter refuses to drive availableTickets below zero.
func (r *BookingRepository) takeTickets(sc mongo.SessionContext, concertID primitive.ObjectID, delta int, now time.Time) error {
	filter := bson.M{"_id": concertID}
	if delta > 0 {
		filter["availableTickets"] = bson.M{"$gte": delta}
	}

	res, err := r.concerts.UpdateOne(sc, filter, bson.M{
		"$inc": bson.M{"availableTickets": -delta},
		"$set": bson.M{"updatedAt": now},
	})
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.concerts.CountDocuments(sc, bson.M{"_id": concertID})
	if err != nil {
		return fmt.Errorf("count concert: %w", err)
	}
	if n == 0 {
		return domain.ErrConcertNotFound
	}
	return domain.ErrSoldOut
}

// EnsureIndexes backs the one-booking-per-pair rule with a unique index.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "concert", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_concert_unique"),
		},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "bookingDate", Value: 1}}},
	})
	return err
}
