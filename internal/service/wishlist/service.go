package wishlist

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/domain"
	wishlistrepo "shopfront/internal/repository/wishlist"
)

// Service manages the authenticated wishlist. Presence is boolean; adding
// an entry that already exists changes nothing.
type Service struct {
	repo     wishlistRepo
	products productRepo
}

type wishlistRepo interface {
	GetOrCreate(ctx context.Context, customerID string) (*domain.Wishlist, error)
	AddLine(ctx context.Context, wishlistID string, line domain.WishlistLine) error
	RemoveLine(ctx context.Context, wishlistID string, key domain.ItemKey) error
	Clear(ctx context.Context, wishlistID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo wishlistrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Get(ctx context.Context, customerID string) (*domain.Wishlist, error) {
	return s.repo.GetOrCreate(ctx, customerID)
}

func (s *Service) Add(ctx context.Context, customerID string, key domain.ItemKey) (*domain.Wishlist, error) {
	line, err := s.buildLine(ctx, key)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, list.ID, *line); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, customerID)
}

func (s *Service) Remove(ctx context.Context, customerID string, key domain.ItemKey) (*domain.Wishlist, error) {
	list, err := s.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, list.ID, key.Normalized()); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, customerID)
}

func (s *Service) Clear(ctx context.Context, customerID string) error {
	list, err := s.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, list.ID)
}

// Merge folds guest entries into the customer's wishlist. Duplicates are
// no-ops; entries whose product has vanished are skipped.
func (s *Service) Merge(ctx context.Context, customerID string, items []domain.WishEntry) (*domain.Wishlist, error) {
	list, err := s.repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for _, entry := range items {
		line, err := s.buildLine(ctx, entry.Key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if err := s.repo.AddLine(ctx, list.ID, *line); err != nil {
			return nil, err
		}
	}
	return s.repo.GetOrCreate(ctx, customerID)
}

func (s *Service) buildLine(ctx context.Context, key domain.ItemKey) (*domain.WishlistLine, error) {
	key = key.Normalized()
	product, err := s.products.GetByID(ctx, key.ProductID)
	if err != nil {
		return nil, err
	}
	if key.Kind == domain.KindVariant && product.Variant(key) == nil {
		return nil, fmt.Errorf("variant of %s: %w", product.Name, domain.ErrNotFound)
	}
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return &domain.WishlistLine{
		Key:        key,
		PriceCents: product.PriceFor(key),
		Currency:   product.Currency,
		Name:       product.Name,
		Image:      image,
	}, nil
}
