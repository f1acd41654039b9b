package cart

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/domain"
	cartrepo "shopfront/internal/repository/cart"
)

// Service applies cart mutations for authenticated customers. Item identity
// follows domain.ItemKey; quantities are clamped to the product's stock
// ceiling at mutation time.
type Service struct {
	repo     cartRepo
	products productRepo
	currency string
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, line domain.CartLine) error
	SetLineQuantity(ctx context.Context, cartID string, key domain.ItemKey, quantity int) error
	RemoveLine(ctx context.Context, cartID string, key domain.ItemKey) error
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo, currency string) *Service {
	return &Service{repo: repo, products: products, currency: currency}
}

func (s *Service) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	return s.repo.GetOrCreate(ctx, customerID, s.currency)
}

func (s *Service) Add(ctx context.Context, customerID string, key domain.ItemKey, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	line, err := s.buildLine(ctx, key, quantity)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.GetOrCreate(ctx, customerID, s.currency)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, *line); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, customerID, s.currency)
}

func (s *Service) Update(ctx context.Context, customerID string, key domain.ItemKey, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreate(ctx, customerID, s.currency)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLineQuantity(ctx, cart.ID, key.Normalized(), quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, customerID, s.currency)
}

func (s *Service) Remove(ctx context.Context, customerID string, key domain.ItemKey) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreate(ctx, customerID, s.currency)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, key.Normalized()); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, customerID, s.currency)
}

func (s *Service) Clear(ctx context.Context, customerID string) error {
	cart, err := s.repo.GetOrCreate(ctx, customerID, s.currency)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}

// Merge folds guest items into the customer's cart in one pass. Quantities
// for matching identities are summed and clamped; items whose product has
// vanished are skipped rather than failing the whole merge.
func (s *Service) Merge(ctx context.Context, customerID string, items []domain.LineItem) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreate(ctx, customerID, s.currency)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		line, err := s.buildLine(ctx, item.Key, item.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrOutOfStock) {
				continue
			}
			return nil, err
		}
		if err := s.repo.AddLine(ctx, cart.ID, *line); err != nil {
			return nil, err
		}
	}
	return s.repo.GetOrCreate(ctx, customerID, s.currency)
}

func (s *Service) buildLine(ctx context.Context, key domain.ItemKey, quantity int) (*domain.CartLine, error) {
	key = key.Normalized()
	product, err := s.products.GetByID(ctx, key.ProductID)
	if err != nil {
		return nil, err
	}
	if key.Kind == domain.KindVariant && product.Variant(key) == nil {
		return nil, fmt.Errorf("variant of %s: %w", product.Name, domain.ErrNotFound)
	}
	stock := product.StockFor(key)
	if stock <= 0 {
		return nil, fmt.Errorf("%s: %w", product.Name, domain.ErrOutOfStock)
	}
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return &domain.CartLine{
		Key:            key,
		Quantity:       quantity,
		Stock:          stock,
		UnitPriceCents: product.PriceFor(key),
		Name:           product.Name,
		Image:          image,
	}, nil
}
