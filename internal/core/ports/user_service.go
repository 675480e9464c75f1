package ports

import (
	"context"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
