package domain

import "time"

type Product struct {
	ID          string           `json:"id"`
	SKU         string           `json:"sku"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	CategoryID  string           `json:"categoryId,omitempty"`
	PriceCents  int64            `json:"priceCents"`
	Currency    string           `json:"currency"`
	Stock       int              `json:"stock"`
	Images      []string         `json:"images,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ProductVariant is one sellable combination of option values, with its own
// SKU, price override and stock.
type ProductVariant struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku"`
	Options    map[string]string `json:"options,omitempty"`
	PriceCents int64             `json:"priceCents,omitempty"`
	Stock      int               `json:"stock"`
}

// Variant looks up a variant matching the given key. It returns nil for
// simple keys or when no variant matches.
func (p Product) Variant(key ItemKey) *ProductVariant {
	if key.Kind != KindVariant {
		return nil
	}
	for i := range p.Variants {
		v := p.Variants[i]
		if key.VariantID != "" {
			if v.ID == key.VariantID || v.SKU == key.VariantID {
				return &p.Variants[i]
			}
			continue
		}
		if VariantItem(p.ID, "", v.Options).Equal(key) {
			return &p.Variants[i]
		}
	}
	return nil
}

// StockFor resolves the stock ceiling for the given key: variant stock when
// the key names a variant, product stock otherwise.
func (p Product) StockFor(key ItemKey) int {
	if v := p.Variant(key); v != nil {
		return v.Stock
	}
	return p.Stock
}

// PriceFor resolves the unit price for the given key, honoring variant
// price overrides.
func (p Product) PriceFor(key ItemKey) int64 {
	if v := p.Variant(key); v != nil && v.PriceCents > 0 {
		return v.PriceCents
	}
	return p.PriceCents
}
