package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/concert-booking/internal/api/metrics"
	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

const (
	defaultTokenTTL = time.Hour
	bcryptCost      = 10
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// tokenClaims is the JWT payload: the subject id and role, plus the
// registered expiry.
type tokenClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthOptions tunes AuthService behaviour.
type AuthOptions struct {
	TokenTTL         time.Duration
	AllowAdminSignup bool
}

// AuthService implements signup, login and bearer token handling.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	opts      AuthOptions
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, opts: opts, log: log, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case !emailPattern.MatchString(email):
		return nil, fmt.Errorf("%w: please provide a valid email address", domain.ErrValidation)
	case len(in.Password) < domain.MinPasswordLength:
		return nil, fmt.Errorf("%w: password must be at least %d characters long", domain.ErrValidation, domain.MinPasswordLength)
	case !domain.ValidRole(role):
		return nil, fmt.Errorf("%w: role must be either %q or %q", domain.ErrValidation, domain.RoleAdmin, domain.RoleUser)
	case role == domain.RoleAdmin && !s.opts.AllowAdminSignup:
		return nil, domain.ErrForbidden
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		TicketBooked: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", role).Msg("user signed up")
	return created, nil
}

// Login checks the credentials and returns a signed token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	return token, nil
}

// IssueToken signs an HS256 token for the subject that expires after the
// configured TTL.
func (s *AuthService) IssueToken(subjectID, role string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		ID:   subjectID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// VerifyToken validates signature and expiry and returns the embedded identity.
func (s *AuthService) VerifyToken(token string) (domain.Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if claims.ID == "" || claims.Role == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{SubjectID: claims.ID, Role: claims.Role}, nil
}
