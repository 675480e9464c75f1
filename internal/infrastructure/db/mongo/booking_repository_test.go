package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

func TestObjectID_MalformedMapsToNotFound(t *testing.T) {
	for _, in := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := objectID(in, domain.ErrBookingNotFound); !errors.Is(err, domain.ErrBookingNotFound) {
			t.Fatalf("objectID(%q): expected ErrBookingNotFound, got %v", in, err)
		}
	}

	want := primitive.NewObjectID()
	got, err := objectID(want.Hex(), domain.ErrBookingNotFound)
	if err != nil || got != want {
		t.Fatalf("objectID(%q) = %v, %v", want.Hex(), got, err)
	}
}

func TestMongoBooking_ToDomain(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	mb := mongoBooking{
		ID:            primitive.NewObjectID(),
		User:          primitive.NewObjectID(),
		Concert:       primitive.NewObjectID(),
		TicketsBooked: 2,
		BookingDate:   at,
	}

	b := mb.toDomain()
	if b.ID != mb.ID.Hex() || b.UserID != mb.User.Hex() || b.ConcertID != mb.Concert.Hex() {
		t.Fatalf("ids not rendered as hex: %+v", b)
	}
	if b.TicketsBooked != 2 {
		t.Fatalf("unexpected tickets %d", b.TicketsBooked)
	}
	if b.BookingDate.Location() != time.UTC || !b.BookingDate.Equal(at) {
		t.Fatalf("booking date not normalised to UTC: %v", b.BookingDate)
	}
}

func TestMongoUser_ToDomainNeverNilTickets(t *testing.T) {
	u := mongoUser{ID: primitive.NewObjectID(), Email: "a@example.com"}.toDomain()
	if u.TicketBooked == nil {
		t.Fatalf("expected empty ticketBooked slice, got nil")
	}
}
