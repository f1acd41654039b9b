package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopfront/internal/domain"
)

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func TestCartAddSendsKeyAndBearer(t *testing.T) {
	var (
		gotAuth string
		gotBody keyedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/items" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(domain.Cart{ID: "cart-1", TotalItems: 2})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), staticTokens("token-123"))
	cart, err := client.CartAdd(context.Background(), domain.VariantItem("p1", "v1", nil), 2)
	if err != nil {
		t.Fatalf("cart add: %v", err)
	}

	if gotAuth != "Bearer token-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotBody.Key.VariantID != "v1" || gotBody.Quantity != 2 {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	if cart.TotalItems != 2 {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestErrorResponsesSurfaceServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "out of stock"})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), staticTokens(""))
	_, err := client.CartAdd(context.Background(), domain.SimpleItem("p1"), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got == "" || !strings.Contains(got, "out of stock") {
		t.Fatalf("error should carry server message, got %q", got)
	}
}

func TestMergeSendsAllGuestItems(t *testing.T) {
	var got mergeCartRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/merge" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(domain.Cart{ID: "cart-1"})
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), staticTokens("token"))
	items := []domain.LineItem{
		{Key: domain.SimpleItem("p1"), Quantity: 2},
		{Key: domain.VariantItem("p2", "v1", nil), Quantity: 1},
	}
	if _, err := client.CartMerge(context.Background(), items); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(got.Items) != 2 || got.Items[1].Key.VariantID != "v1" {
		t.Fatalf("unexpected merge payload: %+v", got.Items)
	}
}
