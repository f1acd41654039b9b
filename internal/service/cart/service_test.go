package cart

import (
	"context"
	"testing"

	"shopfront/internal/domain"
)

type stubCartRepo struct {
	cart       *domain.Cart
	addedLines []domain.CartLine
	setKey     domain.ItemKey
	setQty     int
	removed    []domain.ItemKey
	cleared    int
}

func (s *stubCartRepo) GetOrCreate(_ context.Context, customerID, currency string) (*domain.Cart, error) {
	if s.cart == nil {
		s.cart = &domain.Cart{ID: "cart-1", CustomerID: customerID, Currency: currency}
	}
	return s.cart, nil
}

func (s *stubCartRepo) AddLine(_ context.Context, cartID string, line domain.CartLine) error {
	s.addedLines = append(s.addedLines, line)
	return nil
}

func (s *stubCartRepo) SetLineQuantity(_ context.Context, cartID string, key domain.ItemKey, quantity int) error {
	s.setKey = key
	s.setQty = quantity
	return nil
}

func (s *stubCartRepo) RemoveLine(_ context.Context, cartID string, key domain.ItemKey) error {
	s.removed = append(s.removed, key)
	return nil
}

func (s *stubCartRepo) Clear(_ context.Context, cartID string) error {
	s.cleared++
	return nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func newTestService() (*Service, *stubCartRepo) {
	repo := &stubCartRepo{}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {
			ID: "p1", Name: "Classic Tee", PriceCents: 1999, Stock: 50,
			Variants: []domain.ProductVariant{
				{ID: "v1", Options: map[string]string{"size": "M"}, Stock: 5},
			},
		},
		"p2": {ID: "p2", Name: "Mug", PriceCents: 1299, Stock: 0},
	}}
	return &Service{repo: repo, products: products, currency: "USD"}, repo
}

func TestAddBuildsLineFromCatalog(t *testing.T) {
	svc, repo := newTestService()

	if _, err := svc.Add(context.Background(), "cust-1", domain.SimpleItem("p1"), 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(repo.addedLines) != 1 {
		t.Fatalf("expected one line, got %d", len(repo.addedLines))
	}
	line := repo.addedLines[0]
	if line.UnitPriceCents != 1999 || line.Stock != 50 || line.Name != "Classic Tee" {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestAddVariantUsesVariantStock(t *testing.T) {
	svc, repo := newTestService()

	if _, err := svc.Add(context.Background(), "cust-1", domain.VariantItem("p1", "v1", nil), 1); err != nil {
		t.Fatalf("add variant: %v", err)
	}
	if repo.addedLines[0].Stock != 5 {
		t.Fatalf("variant stock = %d, want 5", repo.addedLines[0].Stock)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "cust-1", domain.SimpleItem("p1"), 0); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
	if _, err := svc.Add(ctx, "cust-1", domain.SimpleItem("missing"), 1); err == nil {
		t.Fatalf("expected error for unknown product")
	}
	if _, err := svc.Add(ctx, "cust-1", domain.VariantItem("p1", "nope", nil), 1); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
	if _, err := svc.Add(ctx, "cust-1", domain.SimpleItem("p2"), 1); err == nil {
		t.Fatalf("expected out of stock error")
	}
}

func TestUpdateNormalizesKey(t *testing.T) {
	svc, repo := newTestService()

	key := domain.ItemKey{ProductID: "p1"} // kind omitted, as external payloads do
	if _, err := svc.Update(context.Background(), "cust-1", key, 3); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.setKey.Kind != domain.KindSimple || repo.setQty != 3 {
		t.Fatalf("unexpected set call: %+v qty=%d", repo.setKey, repo.setQty)
	}
}

func TestMergeSkipsVanishedAndOutOfStockItems(t *testing.T) {
	svc, repo := newTestService()

	items := []domain.LineItem{
		{Key: domain.SimpleItem("p1"), Quantity: 2},
		{Key: domain.SimpleItem("deleted"), Quantity: 1},
		{Key: domain.SimpleItem("p2"), Quantity: 1},
		{Key: domain.SimpleItem("p1"), Quantity: 0},
	}
	if _, err := svc.Merge(context.Background(), "cust-1", items); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(repo.addedLines) != 1 {
		t.Fatalf("expected only the live item to merge, got %d lines", len(repo.addedLines))
	}
	if !repo.addedLines[0].Key.Equal(domain.SimpleItem("p1")) {
		t.Fatalf("unexpected merged key: %+v", repo.addedLines[0].Key)
	}
}
