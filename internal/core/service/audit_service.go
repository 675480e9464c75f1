package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/concert-booking/internal/api/metrics"
	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

type auditService struct {
	repo ports.BookingEventRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists booking events.
func NewAuditService(repo ports.BookingEventRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record assigns an id when missing and writes the event to the audit trail.
func (s *auditService) Record(ctx context.Context, event domain.BookingEvent) error {
	start := time.Now()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = start.UTC()
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditErrorsTotal.WithLabelValues(string(event.Kind)).Inc()
		return fmt.Errorf("record booking event: %w", err)
	}

	metrics.AuditWriteDuration.WithLabelValues(string(event.Kind)).Observe(time.Since(start).Seconds())
	s.log.Debug().
		Str("event_id", event.ID).
		Str("kind", string(event.Kind)).
		Str("booking_id", event.BookingID).
		Int("delta", event.Delta).
		Msg("booking event recorded")
	return nil
}
