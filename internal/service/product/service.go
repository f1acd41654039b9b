package product

import (
	"context"
	"errors"
	"strings"

	"shopfront/internal/cache"
	"shopfront/internal/domain"
	productrepo "shopfront/internal/repository/product"
)

// Service serves catalog reads, with an optional redis read-through cache
// for single-product lookups, and admin catalog writes.
type Service struct {
	repo  productrepo.Repository
	cache *cache.Cache
}

func New(repo productrepo.Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 24
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	key := "product:" + id
	var cached domain.Product
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, p)
	return p, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(p.SKU) == "" {
		return nil, errors.New("sku required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("name required")
	}
	if p.PriceCents <= 0 {
		return nil, errors.New("price must be positive")
	}
	if strings.TrimSpace(p.Currency) == "" {
		return nil, errors.New("currency required")
	}
	if p.Slug == "" {
		p.Slug = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(p.Name)), " ", "-")
	}
	out, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, "product:"+out.ID)
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, "product:"+id)
	return nil
}
