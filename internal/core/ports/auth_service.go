package ports

import (
	"context"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

// SignupInput carries the fields submitted to POST /signup.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string // optional, defaults to domain.RoleUser
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenVerifier decodes bearer tokens into identities.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Identity, error)
}
