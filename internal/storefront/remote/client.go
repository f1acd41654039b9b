// Package remote is the HTTP client for the storefront backend. It carries
// the authenticated shopper's cart, wishlist, auth and order calls; guest
// state never touches the network.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/internal/domain"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	AccessToken() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New builds a client against baseURL. A nil httpClient gets a default with
// a request timeout; a hung backend should not hang the shopper forever.
func New(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

type keyedRequest struct {
	Key      domain.ItemKey `json:"key"`
	Quantity int            `json:"quantity,omitempty"`
}

type mergeCartRequest struct {
	Items []domain.LineItem `json:"items"`
}

type mergeWishlistRequest struct {
	Items []domain.WishEntry `json:"items"`
}

// Credentials is the auth payload returned by login, signup and refresh.
type Credentials struct {
	Customer     domain.Customer `json:"customer"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	var out Credentials
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, email, password, firstName, lastName string) (*Credentials, error) {
	var out Credentials
	in := map[string]string{
		"email":     email,
		"password":  password,
		"firstName": firstName,
		"lastName":  lastName,
	}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	in := map[string]string{"refreshToken": refreshToken}
	return c.do(ctx, http.MethodPost, "/auth/logout", in, nil)
}

func (c *Client) Me(ctx context.Context) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Cart(ctx context.Context) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CartAdd(ctx context.Context, key domain.ItemKey, quantity int) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodPost, "/cart/items", keyedRequest{Key: key, Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CartUpdate(ctx context.Context, key domain.ItemKey, quantity int) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodPatch, "/cart/items", keyedRequest{Key: key, Quantity: quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CartRemove(ctx context.Context, key domain.ItemKey) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodDelete, "/cart/items", keyedRequest{Key: key}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CartClear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}

// CartMerge submits guest cart items in one bulk request and returns the
// merged authenticated cart.
func (c *Client) CartMerge(ctx context.Context, items []domain.LineItem) (*domain.Cart, error) {
	var out domain.Cart
	if err := c.do(ctx, http.MethodPost, "/cart/merge", mergeCartRequest{Items: items}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Wishlist(ctx context.Context) (*domain.Wishlist, error) {
	var out domain.Wishlist
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WishlistAdd(ctx context.Context, key domain.ItemKey) (*domain.Wishlist, error) {
	var out domain.Wishlist
	if err := c.do(ctx, http.MethodPost, "/wishlist/items", keyedRequest{Key: key}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WishlistRemove(ctx context.Context, key domain.ItemKey) (*domain.Wishlist, error) {
	var out domain.Wishlist
	if err := c.do(ctx, http.MethodDelete, "/wishlist/items", keyedRequest{Key: key}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WishlistClear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/wishlist", nil, nil)
}

func (c *Client) WishlistMerge(ctx context.Context, items []domain.WishEntry) (*domain.Wishlist, error) {
	var out domain.Wishlist
	if err := c.do(ctx, http.MethodPost, "/wishlist/merge", mergeWishlistRequest{Items: items}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Product fetches one catalog entry by ID or slug.
func (c *Client) Product(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(idOrSlug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Products lists catalog entries, optionally filtered by a search query.
func (c *Client) Products(ctx context.Context, query string) ([]domain.Product, error) {
	path := "/products"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) Checkout(ctx context.Context, couponCode string) (*domain.Order, error) {
	var out domain.Order
	in := map[string]string{}
	if couponCode != "" {
		in["couponCode"] = couponCode
	}
	if err := c.do(ctx, http.MethodPost, "/orders", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var out struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("%s: %s", resp.Status, payload.Error)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
