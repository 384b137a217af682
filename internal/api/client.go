// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/config"
)

// TokenSource supplies the bearer token attached to authenticated
// requests. An empty token means the request goes out anonymous.
type TokenSource interface {
	Token() string
}

// Client is the typed HTTP client for the marketplace backend. It is
// the source of truth for all durable domain data; the local stores
// only layer on top of what it returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *logrus.Logger
}

// NewClient creates a backend API client. tokens may be nil for a
// client that never authenticates.
func NewClient(cfg *config.Config, tokens TokenSource, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Backend.RequestTimeout},
		tokens:     tokens,
		log:        log,
	}
}

// Auth requests and responses

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserRequest registers a regular customer account.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

// RegisterProducerRequest registers a producer account with its
// storefront details.
type RegisterProducerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
	Description string `json:"description,omitempty"`
}

// AuthResponse carries the backend-issued token and user record.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest updates account-level fields.
type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ChangePasswordRequest changes the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProducerRequest updates the producer profile.
type UpdateProducerRequest struct {
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
}

// ShopRequest carries the canonical shop fields the backend persists.
type ShopRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ProductRequest carries the canonical product fields.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Category    string `json:"category,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// RegisterUser creates a customer account.
func (c *Client) RegisterUser(ctx context.Context, req RegisterUserRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterProducer creates a producer account.
func (c *Client) RegisterProducer(ctx context.Context, req RegisterProducerRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register/producer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the authenticated user behind the session token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile updates account fields for the given user.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), req, nil)
}

// ChangePassword changes the current user's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/api/users/password/change", req, nil)
}

// UpdateProducer updates the producer profile.
func (c *Client) UpdateProducer(ctx context.Context, producerID int64, req UpdateProducerRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/producers/%d", producerID), req, nil)
}

// GetShops lists every shop. The backend wraps the list in different
// envelopes depending on version; all of them decode here.
func (c *Client) GetShops(ctx context.Context) ([]Shop, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/shops", nil, &raw); err != nil {
		return nil, err
	}
	return decodeShopList(raw)
}

// GetProductsByShop lists the products of one shop.
func (c *Client) GetProductsByShop(ctx context.Context, shopID int64) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/shop/%d", shopID), nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GetProductByID fetches one product with its shop context.
func (c *Client) GetProductByID(ctx context.Context, id ID) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+string(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// CreateShop creates a shop for the current producer.
func (c *Client) CreateShop(ctx context.Context, req ShopRequest) (*Shop, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/shops", req, &raw); err != nil {
		return nil, err
	}
	return decodeShop(raw)
}

// UpdateShop updates a shop's canonical fields.
func (c *Client) UpdateShop(ctx context.Context, shopID int64, req ShopRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/shops/%d", shopID), req, nil)
}

// DeleteShop removes a shop.
func (c *Client) DeleteShop(ctx context.Context, shopID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/shops/%d", shopID), nil, nil)
}

// CreateProduct creates a product under a shop.
func (c *Client) CreateProduct(ctx context.Context, shopID int64, req ProductRequest) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/products/shop/%d", shopID), req, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// UpdateProduct updates a product's canonical fields.
func (c *Client) UpdateProduct(ctx context.Context, id ID, req ProductRequest) error {
	return c.do(ctx, http.MethodPut, "/api/products/"+string(id), req, nil)
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id ID) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+string(id), nil, nil)
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeError(resp.StatusCode, payload)
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn(apiErr.Message)
		return apiErr
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// decodeShopList accepts a bare array, {"data": [...]} or
// {"shops": [...]}.
func decodeShopList(raw json.RawMessage) ([]Shop, error) {
	var shops []Shop
	if err := json.Unmarshal(raw, &shops); err == nil {
		return shops, nil
	}

	var envelope struct {
		Data  []Shop `json:"data"`
		Shops []Shop `json:"shops"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected shops payload: %w", err)
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return envelope.Shops, nil
}

// decodeShop accepts {"shop": {...}} or a bare shop object.
func decodeShop(raw json.RawMessage) (*Shop, error) {
	var envelope struct {
		Shop *Shop `json:"shop"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Shop != nil && envelope.Shop.ID != 0 {
		return envelope.Shop, nil
	}

	var shop Shop
	if err := json.Unmarshal(raw, &shop); err != nil {
		return nil, fmt.Errorf("unexpected shop payload: %w", err)
	}
	return &shop, nil
}
