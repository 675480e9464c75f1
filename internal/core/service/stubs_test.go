package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

// memStore is an in-memory stand-in for the Mongo repositories. Each
// inventory operation runs under one lock, mirroring a transaction.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*domain.User // by id
	concerts map[string]*domain.Concert
	bookings map[string]*domain.Booking
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*domain.User),
		concerts: make(map[string]*domain.Concert),
		bookings: make(map[string]*domain.Booking),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addUser(id, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &domain.User{ID: id, Email: id + "@example.com", Role: role, TicketBooked: []string{}}
}

func (s *memStore) addConcert(id string, available int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concerts[id] = &domain.Concert{ID: id, ConcertName: id, Venue: "Arena", AvailableTickets: available}
}

func (s *memStore) available(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.concerts[id].AvailableTickets
}

func (s *memStore) pair(userID, concertID string) *domain.Booking {
	for _, b := range s.bookings {
		if b.UserID == userID && b.ConcertID == concertID {
			return b
		}
	}
	return nil
}

func (s *memStore) booking(userID, concertID string) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.pair(userID, concertID); b != nil {
		clone := *b
		return &clone
	}
	return nil
}

// --- ports.UserRepository ---

func (s *memStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := *user
	clone.ID = s.nextID("user")
	s.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *memStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

// --- ports.BookingRepository ---

func (s *memStore) take(concertID string, delta int) error {
	c, ok := s.concerts[concertID]
	if !ok {
		return domain.ErrConcertNotFound
	}
	if delta > 0 && c.AvailableTickets < delta {
		return domain.ErrSoldOut
	}
	c.AvailableTickets -= delta
	return nil
}

func (s *memStore) Reserve(_ context.Context, in ports.ReserveInput) (*ports.ReserveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.pair(in.UserID, in.ConcertID)
	if existing != nil && existing.TicketsBooked+in.Tickets > in.Limit {
		return nil, domain.ErrTooManyTickets
	}
	if err := s.take(in.ConcertID, in.Tickets); err != nil {
		return nil, err
	}

	if existing != nil {
		existing.TicketsBooked += in.Tickets
		clone := *existing
		return &ports.ReserveResult{Booking: &clone}, nil
	}

	// Same order as the Mongo transaction: inventory first, then the user
	// link, rolled back when the user is missing.
	u, ok := s.users[in.UserID]
	if !ok {
		s.concerts[in.ConcertID].AvailableTickets += in.Tickets
		return nil, domain.ErrUserNotFound
	}
	b := &domain.Booking{
		ID:            s.nextID("booking"),
		UserID:        in.UserID,
		ConcertID:     in.ConcertID,
		TicketsBooked: in.Tickets,
		BookingDate:   time.Now().UTC(),
	}
	s.bookings[b.ID] = b
	u.TicketBooked = append(u.TicketBooked, b.ID)
	clone := *b
	return &ports.ReserveResult{Booking: &clone, Created: true}, nil
}

func (s *memStore) Adjust(_ context.Context, userID, concertID string, newCount int) (*ports.AdjustResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.pair(userID, concertID)
	if b == nil {
		return nil, domain.ErrBookingNotFound
	}
	old := b.TicketsBooked
	if err := s.take(concertID, newCount-old); err != nil {
		return nil, err
	}
	b.TicketsBooked = newCount
	bc, cc := *b, *s.concerts[concertID]
	return &ports.AdjustResult{Booking: &bc, Concert: &cc, OldCount: old}, nil
}

func (s *memStore) Cancel(_ context.Context, bookingID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	delete(s.bookings, bookingID)
	if c, ok := s.concerts[b.ConcertID]; ok {
		c.AvailableTickets += b.TicketsBooked
	}
	if u, ok := s.users[b.UserID]; ok {
		kept := u.TicketBooked[:0]
		for _, id := range u.TicketBooked {
			if id != bookingID {
				kept = append(kept, id)
			}
		}
		u.TicketBooked = kept
	}
	return b, nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

// --- IdempotencyStore ---

type memIdempotency struct {
	mu      sync.Mutex
	entries map[string]ports.IdempotencyRecord
	down    bool
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{entries: make(map[string]ports.IdempotencyRecord)}
}

func (m *memIdempotency) Claim(_ context.Context, scope, key, fingerprint string) (*ports.IdempotencyRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, false, fmt.Errorf("redis unavailable")
	}
	if rec, ok := m.entries[scope+"/"+key]; ok {
		return &rec, false, nil
	}
	m.entries[scope+"/"+key] = ports.IdempotencyRecord{Fingerprint: fingerprint}
	return nil, true, nil
}

func (m *memIdempotency) Complete(_ context.Context, scope, key string, record *ports.IdempotencyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := *record.Result
	m.entries[scope+"/"+key] = ports.IdempotencyRecord{Fingerprint: record.Fingerprint, Result: &res}
	return nil
}

func (m *memIdempotency) Release(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, scope+"/"+key)
	return nil
}

func (m *memIdempotency) held(scope, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[scope+"/"+key]
	return ok
}

// gatedReserve holds Reserve open until release is closed, so a second
// request can arrive while the first is mid-flight.
type gatedReserve struct {
	*memStore
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedReserve(store *memStore) *gatedReserve {
	return &gatedReserve{memStore: store, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedReserve) Reserve(ctx context.Context, in ports.ReserveInput) (*ports.ReserveResult, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.memStore.Reserve(ctx, in)
}

// --- ports.AuditPublisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (p *recordingPublisher) Publish(e domain.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) kinds() []domain.BookingEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.BookingEventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

func newUser(email, hash string) *domain.User {
	return &domain.User{Email: email, PasswordHash: hash, Role: domain.RoleUser, TicketBooked: []string{}}
}
