package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
	custrepo "shopfront/internal/repository/customer"
	tokenrepo "shopfront/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles signup/login flows and token issuance.
type Service struct {
	repo        custRepo
	tokens      tokenRepo
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

type custRepo interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]domain.Customer, int, error)
}

type tokenRepo interface {
	Create(ctx context.Context, t tokenrepo.RefreshToken) error
	Get(ctx context.Context, token string) (*tokenrepo.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

// New creates a Service with sane defaults.
func New(repo custrepo.Repository, tokens tokenrepo.Repository, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		secret:      []byte(secret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		passwordMin: 8,
	}
}

// TokenPair carries a short-lived JWT access token and a persisted,
// revocable refresh token.
type TokenPair struct {
	Access  string
	Refresh string
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Signup registers a new customer and logs them straight in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, *TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, nil, errors.New("password too short")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	created, err := s.repo.Create(ctx, domain.Customer{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issue(ctx, created)
	if err != nil {
		return nil, nil, err
	}
	return created, pair, nil
}

// Login verifies credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Customer, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.issue(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return c, pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The old refresh
// token is revoked; refresh tokens are single-use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.Customer, *TokenPair, error) {
	stored, err := s.tokens.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}
	if stored.Revoked || stored.ExpiresAt.Before(time.Now()) {
		return nil, nil, ErrInvalidToken
	}
	c, err := s.repo.GetByID(ctx, stored.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, nil, err
	}
	pair, err := s.issue(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return c, pair, nil
}

// Logout revokes the given refresh token. Revoking an unknown token is not
// an error; the caller's session is gone either way.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.Revoke(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Customer, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) issue(ctx context.Context, c *domain.Customer) (*TokenPair, error) {
	access, err := s.signAccess(c)
	if err != nil {
		return nil, err
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, tokenrepo.RefreshToken{
		Token:      refresh,
		CustomerID: c.ID,
		ExpiresAt:  time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}
