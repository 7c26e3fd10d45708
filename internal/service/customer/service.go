package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession indicates the provided session token could not be
	// validated.
	ErrInvalidSession = errors.New("invalid session")
)

type customerRepo interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type sessionRepo interface {
	Create(ctx context.Context, token, customerID string, expiresAt time.Time) error
	CustomerID(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Service handles customer registration and cookie-session flows.
type Service struct {
	repo        customerRepo
	sessions    sessionRepo
	sessionTTL  time.Duration
	passwordMin int
}

func New(repo customerRepo, sessions sessionRepo, sessionTTL time.Duration) *Service {
	return &Service{
		repo:        repo,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		passwordMin: 8,
	}
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register creates the customer and immediately opens a session, so the
// caller can set the cookie without a separate login round trip.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Customer, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, "", errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	created, err := s.repo.Create(ctx, domain.Customer{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, created.ID)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login validates credentials and returns the customer plus a fresh
// session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Customer, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, c.ID)
	if err != nil {
		return nil, "", err
	}
	return c, token, nil
}

// Logout discards the session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// BySession returns the customer bound to a live session token.
func (s *Service) BySession(ctx context.Context, token string) (*domain.Customer, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidSession
	}
	customerID, err := s.sessions.CustomerID(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return c, nil
}

// SessionTTL exposes the session lifetime for cookie max-age.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *Service) openSession(ctx context.Context, customerID string) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Create(ctx, token, customerID, time.Now().Add(s.sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
