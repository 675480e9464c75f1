package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

type ConcertService struct {
	repo   ports.ConcertRepository
	logger zerolog.Logger
}

func NewConcertService(repo ports.ConcertRepository, logger zerolog.Logger) *ConcertService {
	return &ConcertService{repo: repo, logger: logger}
}

// normalize trims the text fields the way they are stored.
func normalize(f domain.ConcertFields) domain.ConcertFields {
	f.ConcertName = strings.TrimSpace(f.ConcertName)
	f.Venue = strings.TrimSpace(f.Venue)
	f.DateTime = f.DateTime.UTC()
	return f
}

func (s *ConcertService) CreateConcert(ctx context.Context, fields domain.ConcertFields) (*domain.Concert, error) {
	fields = normalize(fields)
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Concert{
		ConcertName:      fields.ConcertName,
		DateTime:         fields.DateTime,
		Venue:            fields.Venue,
		TicketPrice:      fields.TicketPrice,
		AvailableTickets: fields.AvailableTickets,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create concert")
		return nil, fmt.Errorf("create concert: %w", err)
	}

	s.logger.Info().Str("concert_id", created.ID).Int("available_tickets", created.AvailableTickets).Msg("concert created")
	return created, nil
}

func (s *ConcertService) ListConcerts(ctx context.Context) ([]*domain.Concert, error) {
	concerts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list concerts: %w", err)
	}
	return concerts, nil
}

func (s *ConcertService) GetConcert(ctx context.Context, id string) (*domain.Concert, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateConcert replaces all five mutable fields of the concert.
func (s *ConcertService) UpdateConcert(ctx context.Context, id string, fields domain.ConcertFields) (*domain.Concert, error) {
	fields = normalize(fields)
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Replace(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("concert_id", id).Msg("concert updated")
	return updated, nil
}

// DeleteConcert removes the concert. Bookings that reference it are kept.
func (s *ConcertService) DeleteConcert(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("concert_id", id).Msg("concert deleted")
	return nil
}
