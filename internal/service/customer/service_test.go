package customer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

type stubCustomerRepo struct {
	customers map[string]*domain.Customer
	createErr error
	nextID    string
}

func (s *stubCustomerRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.customers[c.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	c.ID = s.nextID
	if s.customers == nil {
		s.customers = make(map[string]*domain.Customer)
	}
	s.customers[c.Email] = &c
	return &c, nil
}

func (s *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := s.customers[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubSessionRepo struct {
	sessions map[string]string
	deleted  []string
}

func (s *stubSessionRepo) Create(_ context.Context, token, customerID string, _ time.Time) error {
	if s.sessions == nil {
		s.sessions = make(map[string]string)
	}
	s.sessions[token] = customerID
	return nil
}

func (s *stubSessionRepo) CustomerID(_ context.Context, token string) (string, error) {
	id, ok := s.sessions[token]
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (s *stubSessionRepo) Delete(_ context.Context, token string) error {
	s.deleted = append(s.deleted, token)
	delete(s.sessions, token)
	return nil
}

func newTestService() (*Service, *stubCustomerRepo, *stubSessionRepo) {
	repo := &stubCustomerRepo{nextID: "cust-1"}
	sessions := &stubSessionRepo{}
	return New(repo, sessions, time.Hour), repo, sessions
}

func TestRegisterOpensSession(t *testing.T) {
	svc, repo, sessions := newTestService()

	c, token, err := svc.Register(context.Background(), RegisterInput{
		Email:     " Jane@Example.COM ",
		Password:  "Sup3rSecret",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.NotEmpty(t, token)
	assert.Equal(t, c.ID, sessions.sessions[token])

	stored := repo.customers["jane@example.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Sup3rSecret")))
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "alllower1"},
		{"no digit", "NoDigitsHere"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: tc.password})
			assert.Error(t, err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	c, token, err := svc.Login(context.Background(), "A@B.com", "Sup3rSecret")

	require.NoError(t, err)
	assert.Equal(t, "a@b.com", c.Email)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@b.com", "WrongPass1")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody@b.com", "Sup3rSecret")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBySession(t *testing.T) {
	svc, _, _ := newTestService()
	registered, token, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	c, err := svc.BySession(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, registered.ID, c.ID)
}

func TestBySessionInvalidToken(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.BySession(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = svc.BySession(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogoutDeletesSession(t *testing.T) {
	svc, _, sessions := newTestService()
	_, token, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	assert.Contains(t, sessions.deleted, token)
	_, err = svc.BySession(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogoutEmptyTokenIsNoOp(t *testing.T) {
	svc, _, sessions := newTestService()

	require.NoError(t, svc.Logout(context.Background(), ""))
	assert.Empty(t, sessions.deleted)
}
