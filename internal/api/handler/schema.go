package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// --- Concerts ---

// concertRequest is shared by create and update: updates replace every field.
type concertRequest struct {
	ConcertName      string   `json:"concertName"      validate:"required"`
	DateTime         string   `json:"dateTime"         validate:"required"`
	Venue            string   `json:"venue"            validate:"required"`
	TicketPrice      *float64 `json:"ticketPrice"      validate:"required,gte=0"`
	AvailableTickets *int     `json:"availableTickets" validate:"required,gte=0"`
}

func (r concertRequest) toFields() (domain.ConcertFields, error) {
	dt, err := parseDateTime(r.DateTime)
	if err != nil {
		return domain.ConcertFields{}, err
	}
	return domain.ConcertFields{
		ConcertName:      r.ConcertName,
		DateTime:         dt,
		Venue:            r.Venue,
		TicketPrice:      *r.TicketPrice,
		AvailableTickets: *r.AvailableTickets,
	}, nil
}

// dateTimeLayouts are the ISO-8601 shapes accepted for dateTime: seconds or
// minute precision, with an extended (+02:00), basic (+0200) or hour-only
// (+02) offset. Values without a zone are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date and time must be in a valid ISO8601 format", domain.ErrValidation)
}

// --- Bookings ---

type bookTicketsRequest struct {
	UserID    string `json:"userId"`
	ConcertID string `json:"concertId" validate:"required"`
	Tickets   int    `json:"tickets"`
}

type bookTicketsResponse struct {
	Message string          `json:"message"`
	Booking *domain.Booking `json:"booking"`
}

type updateBookingRequest struct {
	ConcertID string `json:"concertId" validate:"required"`
	Tickets   int    `json:"tickets"`
}

type updateBookingResponse struct {
	UpdatedTickets  int             `json:"updatedtickets"`
	OldCount        int             `json:"oldcount"`
	ExistingBooking *domain.Booking `json:"existingBooking"`
	Concert         *domain.Concert `json:"concert"`
	Message         string          `json:"message"`
}
