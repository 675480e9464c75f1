package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MinPasswordLength is the shortest plaintext password accepted at signup.
const MinPasswordLength = 6

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TicketBooked []string  `json:"ticketBooked"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// Identity is the decoded subject of a bearer token.
type Identity struct {
	SubjectID string
	Role      string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
