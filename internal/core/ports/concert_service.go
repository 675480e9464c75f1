package ports

import (
	"context"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

// ConcertService defines use-case operations for concerts.
type ConcertService interface {
	CreateConcert(ctx context.Context, fields domain.ConcertFields) (*domain.Concert, error)
	ListConcerts(ctx context.Context) ([]*domain.Concert, error)
	GetConcert(ctx context.Context, id string) (*domain.Concert, error)
	UpdateConcert(ctx context.Context, id string, fields domain.ConcertFields) (*domain.Concert, error)
	DeleteConcert(ctx context.Context, id string) error
}
