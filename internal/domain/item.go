package domain

import (
	"sort"
	"strings"
)

// ItemKind discriminates how a cart or wishlist line identifies its product.
type ItemKind string

const (
	// KindSimple identifies a product without selectable options.
	KindSimple ItemKind = "simple"
	// KindVariant identifies one concrete variant of a product.
	KindVariant ItemKind = "variant"
)

// ItemKey is the identity of a cart or wishlist line. Two lines address the
// same entry iff their keys are Equal; the same product with a different
// option selection is a distinct entry. The add, update and remove paths all
// match through this one rule.
type ItemKey struct {
	Kind      ItemKind          `json:"kind"`
	ProductID string            `json:"productId"`
	VariantID string            `json:"variantId,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

// SimpleItem builds the key for a product without variants.
func SimpleItem(productID string) ItemKey {
	return ItemKey{Kind: KindSimple, ProductID: productID}
}

// VariantItem builds the key for a chosen variant. Either a variant ID/SKU
// or the selected option values identify the variant.
func VariantItem(productID, variantID string, options map[string]string) ItemKey {
	return ItemKey{Kind: KindVariant, ProductID: productID, VariantID: variantID, Options: options}
}

// Normalized fills in the kind for keys decoded from external payloads that
// omit it: a key with neither variant ID nor options is simple.
func (k ItemKey) Normalized() ItemKey {
	if k.Kind != "" {
		return k
	}
	if k.VariantID == "" && len(k.Options) == 0 {
		k.Kind = KindSimple
	} else {
		k.Kind = KindVariant
	}
	return k
}

// Fingerprint renders a canonical storage form of the key, stable across
// option ordering. Matching logic uses Equal; the fingerprint exists only to
// back uniqueness constraints in storage.
func (k ItemKey) Fingerprint() string {
	k = k.Normalized()
	if k.Kind == KindSimple {
		return "simple:" + k.ProductID
	}
	if k.VariantID != "" {
		return "variant:" + k.ProductID + ":" + k.VariantID
	}
	names := make([]string, 0, len(k.Options))
	for name := range k.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("variant:")
	b.WriteString(k.ProductID)
	for _, name := range names {
		b.WriteString(":")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(k.Options[name])
	}
	return b.String()
}

// Equal reports whether two keys address the same entry. Variant IDs win
// when present; otherwise option maps are compared by content, so key
// ordering in serialized forms never matters.
func (k ItemKey) Equal(other ItemKey) bool {
	if k.Kind != other.Kind || k.ProductID != other.ProductID {
		return false
	}
	if k.Kind == KindSimple {
		return true
	}
	if k.VariantID != "" || other.VariantID != "" {
		return k.VariantID == other.VariantID
	}
	if len(k.Options) != len(other.Options) {
		return false
	}
	for name, value := range k.Options {
		if got, ok := other.Options[name]; !ok || got != value {
			return false
		}
	}
	return true
}
