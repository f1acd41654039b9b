package category

import (
	"context"
	"errors"
	"strings"

	"shopfront/internal/domain"
	categoryrepo "shopfront/internal/repository/category"
)

type Service struct {
	repo categoryrepo.Repository
}

func New(repo categoryrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if err := normalize(&c); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if strings.TrimSpace(c.ID) == "" {
		return nil, errors.New("id required")
	}
	if err := normalize(&c); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalize(c *domain.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("name required")
	}
	if c.Key == "" {
		c.Key = strings.ReplaceAll(strings.ToLower(c.Name), " ", "-")
	}
	if c.Slug == "" {
		c.Slug = c.Key
	}
	return nil
}
