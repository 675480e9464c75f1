package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/concert-booking/internal/api/metrics"
	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

// IdempotencyStore abstracts the replay store for booking submissions (Redis).
// Claim must be atomic: of two concurrent claims for one key, only one wins.
type IdempotencyStore interface {
	Claim(ctx context.Context, scope, key, fingerprint string) (*ports.IdempotencyRecord, bool, error)
	Complete(ctx context.Context, scope, key string, record *ports.IdempotencyRecord) error
	Release(ctx context.Context, scope, key string) error
}

type BookingService struct {
	repo        ports.BookingRepository
	idempotency IdempotencyStore
	audit       ports.AuditPublisher
	policy      domain.Policy
	log         zerolog.Logger
	now         func() time.Time
}

func NewBookingService(
	repo ports.BookingRepository,
	idempotency IdempotencyStore,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:        repo,
		idempotency: idempotency,
		audit:       audit,
		log:         log,
		now:         time.Now,
	}
}

// BookTickets adds tickets to the caller's booking for a concert, creating the
// booking on first use. Inventory and booking change together or not at all.
func (s *BookingService) BookTickets(ctx context.Context, in ports.BookTicketsInput) (*ports.BookTicketsResult, error) {
	userID := in.UserID
	if userID == "" {
		userID = in.Caller.SubjectID
	}

	// 1. Request-level checks; nothing is read before these pass.
	if err := domain.CheckTicketCount(in.Tickets); err != nil {
		metrics.BookingsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}
	if in.ConcertID == "" || userID == "" {
		return nil, fmt.Errorf("%w: userId and concertId are required", domain.ErrValidation)
	}
	if err := s.policy.AuthorizeSubject(in.Caller, userID); err != nil {
		return nil, err
	}

	// 2. Idempotency: claim the key before any write so a concurrent retry
	// cannot reserve a second time.
	scope := in.Caller.SubjectID
	fingerprint := bookingFingerprint(userID, in.ConcertID, in.Tickets)
	claimed := false
	if in.IdempotencyKey != "" && s.idempotency != nil {
		prev, ok, err := s.idempotency.Claim(ctx, scope, in.IdempotencyKey, fingerprint)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency claim failed, booking anyway")
		case ok:
			claimed = true
		default:
			return s.replay(in.IdempotencyKey, fingerprint, prev)
		}
	}

	// 3. Atomic reserve: cap check, inventory decrement and booking upsert.
	res, err := s.repo.Reserve(ctx, ports.ReserveInput{
		UserID:    userID,
		ConcertID: in.ConcertID,
		Tickets:   in.Tickets,
		Limit:     domain.MaxTicketsPerPair,
	})
	if err != nil {
		if claimed {
			if rerr := s.idempotency.Release(ctx, scope, in.IdempotencyKey); rerr != nil {
				s.log.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		metrics.BookingsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, fmt.Errorf("book tickets: %w", err)
	}

	result := &ports.BookTicketsResult{Booking: res.Booking, Created: res.Created}

	if claimed {
		record := &ports.IdempotencyRecord{Fingerprint: fingerprint, Result: result}
		if err := s.idempotency.Complete(ctx, scope, in.IdempotencyKey, record); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency result")
		}
	}

	kind := domain.BookingMerged
	if res.Created {
		kind = domain.BookingBooked
	}
	s.publish(kind, res.Booking, in.Tickets)

	metrics.BookingsTotal.WithLabelValues(string(kind)).Inc()
	metrics.TicketsReserved.Add(float64(in.Tickets))
	s.log.Info().
		Str("booking_id", res.Booking.ID).
		Str("user_id", userID).
		Str("concert_id", in.ConcertID).
		Int("tickets", in.Tickets).
		Int("tickets_booked", res.Booking.TicketsBooked).
		Bool("created", res.Created).
		Msg("tickets booked")

	return result, nil
}

// replay answers a request whose key is already held by an earlier one.
func (s *BookingService) replay(key, fingerprint string, prev *ports.IdempotencyRecord) (*ports.BookTicketsResult, error) {
	if prev == nil {
		return nil, domain.ErrRequestInProgress
	}
	if prev.Fingerprint != fingerprint {
		return nil, domain.ErrIdempotencyReused
	}
	if prev.Pending() {
		return nil, domain.ErrRequestInProgress
	}
	s.log.Info().Str("idempotency_key", key).Str("booking_id", prev.Result.Booking.ID).Msg("idempotent replay")
	out := *prev.Result
	out.Replayed = true
	return &out, nil
}

// bookingFingerprint identifies the body a key was first used with.
func bookingFingerprint(userID, concertID string, tickets int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%d", userID, concertID, tickets)))
	return hex.EncodeToString(sum[:])
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBooking replaces the ticket count of the (user, concert) booking and
// reconciles the concert inventory by the difference.
func (s *BookingService) UpdateBooking(ctx context.Context, in ports.UpdateBookingInput) (*ports.UpdateBookingResult, error) {
	if err := domain.CheckTicketCount(in.Tickets); err != nil {
		return nil, err
	}
	if in.ConcertID == "" {
		return nil, fmt.Errorf("%w: concertId is required", domain.ErrValidation)
	}
	if err := s.policy.AuthorizeSubject(in.Caller, in.UserID); err != nil {
		return nil, err
	}

	res, err := s.repo.Adjust(ctx, in.UserID, in.ConcertID, in.Tickets)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.publish(domain.BookingUpdated, res.Booking, in.Tickets-res.OldCount)
	s.log.Info().
		Str("booking_id", res.Booking.ID).
		Int("old_count", res.OldCount).
		Int("new_count", in.Tickets).
		Int("available_tickets", res.Concert.AvailableTickets).
		Msg("booking updated")

	return &ports.UpdateBookingResult{
		UpdatedTickets: in.Tickets,
		OldCount:       res.OldCount,
		Booking:        res.Booking,
		Concert:        res.Concert,
	}, nil
}

// DeleteBooking removes a booking and returns its tickets to the concert.
func (s *BookingService) DeleteBooking(ctx context.Context, caller domain.Identity, bookingID string) error {
	if !caller.IsAdmin() {
		existing, err := s.repo.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := s.policy.AuthorizeSubject(caller, existing.UserID); err != nil {
			return err
		}
	}

	cancelled, err := s.repo.Cancel(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	s.publish(domain.BookingCancelled, &domain.Booking{
		ID:        cancelled.ID,
		UserID:    cancelled.UserID,
		ConcertID: cancelled.ConcertID,
	}, -cancelled.TicketsBooked)
	s.log.Info().Str("booking_id", bookingID).Int("restored", cancelled.TicketsBooked).Msg("booking deleted")
	return nil
}

func (s *BookingService) publish(kind domain.BookingEventKind, b *domain.Booking, delta int) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(domain.BookingEvent{
		Kind:          kind,
		BookingID:     b.ID,
		UserID:        b.UserID,
		ConcertID:     b.ConcertID,
		Delta:         delta,
		TicketsBooked: b.TicketsBooked,
		OccurredAt:    s.now().UTC(),
	})
}

// outcome maps a booking failure to its metrics label.
func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTooManyTickets):
		return "over_limit"
	case errors.Is(err, domain.ErrInvalidTicketCount):
		return "invalid_count"
	case errors.Is(err, domain.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, domain.ErrConcertNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
