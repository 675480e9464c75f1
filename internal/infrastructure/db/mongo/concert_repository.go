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
)

type ConcertRepository struct {
	col *mongo.Collection
}

func NewConcertRepository(db *mongo.Database) *ConcertRepository {
	return &ConcertRepository{col: db.Collection(collectionConcerts)}
}

type mongoConcert struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ConcertName      string             `bson:"concertName"`
	DateTime         time.Time          `bson:"dateTime"`
	Venue            string             `bson:"venue"`
	TicketPrice      float64            `bson:"ticketPrice"`
	AvailableTickets int                `bson:"availableTickets"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (mc mongoConcert) toDomain() *domain.Concert {
	return &domain.Concert{
		ID:               mc.ID.Hex(),
		ConcertName:      mc.ConcertName,
		DateTime:         mc.DateTime.UTC(),
		Venue:            mc.Venue,
		TicketPrice:      mc.TicketPrice,
		AvailableTickets: mc.AvailableTickets,
		CreatedAt:        mc.CreatedAt.UTC(),
		UpdatedAt:        mc.UpdatedAt.UTC(),
	}
}

// Create inserts a new concert document.
func (r *ConcertRepository) Create(ctx context.Context, c *domain.Concert) (*domain.Concert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoConcert{
		ID:               primitive.NewObjectID(),
		ConcertName:      c.ConcertName,
		DateTime:         c.DateTime,
		Venue:            c.Venue,
		TicketPrice:      c.TicketPrice,
		AvailableTickets: c.AvailableTickets,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns every concert sorted by dateTime ascending.
func (r *ConcertRepository) List(ctx context.Context) ([]*domain.Concert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "dateTime", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoConcert
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	concerts := make([]*domain.Concert, len(docs))
	for i, d := range docs {
		concerts[i] = d.toDomain()
	}
	return concerts, nil
}

func (r *ConcertRepository) FindByID(ctx context.Context, id string) (*domain.Concert, error) {
	oid, err := objectID(id, domain.ErrConcertNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoConcert
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrConcertNotFound
		}
		return nil, err
	}
	return mc.toDomain(), nil
}

// Replace overwrites the five mutable fields and returns the updated document.
func (r *ConcertRepository) Replace(ctx context.Context, id string, f domain.ConcertFields) (*domain.Concert, error) {
	oid, err := objectID(id, domain.ErrConcertNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"concertName":      f.ConcertName,
		"dateTime":         f.DateTime,
		"venue":            f.Venue,
		"ticketPrice":      f.TicketPrice,
		"availableTickets": f.AvailableTickets,
		"updatedAt":        time.Now().UTC(),
	}}

	var mc mongoConcert
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrConcertNotFound
		}
		return nil, fmt.Errorf("replace concert: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ConcertRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrConcertNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete concert: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrConcertNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the concerts collection.
func (r *ConcertRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "dateTime", Value: 1}}})
	return err
}
