package ports

import (
	"context"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

// ConcertRepository defines persistence operations for concerts.
// Unknown or malformed IDs yield domain.ErrConcertNotFound.
type ConcertRepository interface {
	Create(ctx context.Context, c *domain.Concert) (*domain.Concert, error)
	// List returns every concert ordered by date/time ascending.
	List(ctx context.Context) ([]*domain.Concert, error)
	FindByID(ctx context.Context, id string) (*domain.Concert, error)
	// Replace overwrites all mutable fields and returns the stored record.
	Replace(ctx context.Context, id string, fields domain.ConcertFields) (*domain.Concert, error)
	Delete(ctx context.Context, id string) error
}
