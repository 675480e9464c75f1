package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckTicketCount(t *testing.T) {
	cases := map[int]error{
		-1: ErrInvalidTicketCount,
		0:  ErrInvalidTicketCount,
		1:  nil,
		3:  nil,
		4:  ErrTooManyTickets,
	}
	for n, want := range cases {
		err := CheckTicketCount(n)
		if want == nil {
			assert.NoError(t, err, "n=%d", n)
			continue
		}
		assert.ErrorIs(t, err, want, "n=%d", n)
	}
}

func TestConcertFields_Validate(t *testing.T) {
	ok := ConcertFields{ConcertName: "Show", Venue: "Hall", DateTime: time.Now()}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.AvailableTickets = -1
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "available tickets")
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleUser))
	assert.False(t, ValidRole("guest"))
	assert.False(t, ValidRole(""))
}
