package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopfront/internal/domain"
	tokenrepo "shopfront/internal/repository/token"
)

type stubCustomerRepo struct {
	byEmail map[string]*domain.Customer
	byID    map[string]*domain.Customer
	nextID  int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		byEmail: map[string]*domain.Customer{},
		byID:    map[string]*domain.Customer{},
	}
}

func (s *stubCustomerRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if _, exists := s.byEmail[c.Email]; exists {
		return nil, domain.ErrConflict
	}
	s.nextID++
	c.ID = "cust-" + string(rune('0'+s.nextID))
	s.byEmail[c.Email] = &c
	s.byID[c.ID] = &c
	return &c, nil
}

func (s *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCustomerRepo) List(_ context.Context, limit, offset int) ([]domain.Customer, int, error) {
	return nil, 0, nil
}

type stubTokenRepo struct {
	tokens map[string]*tokenrepo.RefreshToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[string]*tokenrepo.RefreshToken{}}
}

func (s *stubTokenRepo) Create(_ context.Context, t tokenrepo.RefreshToken) error {
	s.tokens[t.Token] = &t
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*tokenrepo.RefreshToken, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *stubTokenRepo) Revoke(_ context.Context, token string) error {
	t, ok := s.tokens[token]
	if !ok {
		return domain.ErrNotFound
	}
	t.Revoked = true
	return nil
}

func (s *stubTokenRepo) RevokeAll(_ context.Context, customerID string) error {
	for _, t := range s.tokens {
		if t.CustomerID == customerID {
			t.Revoked = true
		}
	}
	return nil
}

func newTestService() *Service {
	return New(newStubCustomerRepo(), newStubTokenRepo(), "test-secret", time.Hour, 24*time.Hour)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, pair, err := svc.Signup(ctx, SignupInput{Email: "Ana@Example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if created.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.Role != domain.RoleCustomer {
		t.Fatalf("role = %q, want customer", created.Role)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	claims, err := ParseAccess(pair.Access, []byte("test-secret"))
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.Subject != created.ID || claims.Email != created.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, err := svc.Login(ctx, "ana@example.com", "secret-pass"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "short"}); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestRefreshIsSingleUse(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, pair, err := svc.Signup(ctx, SignupInput{Email: "a@b.c", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, next, err := svc.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.Refresh == pair.Refresh {
		t.Fatalf("refresh token was not rotated")
	}

	if _, _, err := svc.Refresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused refresh token: got %v, want ErrInvalidToken", err)
	}
}

func TestLogoutRevokesAndToleratesUnknownTokens(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, pair, err := svc.Signup(ctx, SignupInput{Email: "a@b.c", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.Logout(ctx, pair.Refresh); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token must not refresh, got %v", err)
	}

	if err := svc.Logout(ctx, "never-issued"); err != nil {
		t.Fatalf("unknown token logout should be a no-op, got %v", err)
	}
}

func TestParseAccessRejectsForgedTokens(t *testing.T) {
	svc := newTestService()
	_, pair, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := ParseAccess(pair.Access, []byte("other-secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: got %v, want ErrInvalidToken", err)
	}
	if _, err := ParseAccess("not-a-jwt", []byte("test-secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: got %v, want ErrInvalidToken", err)
	}
}
