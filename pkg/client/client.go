package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jshoplabs/jshop/pkg/domain"
)

// TokenSource supplies the current bearer credential. An empty string means no
// session exists; protected calls are refused client-side in that case.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource for one-shot CLI calls and tests.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// Client is the JSHOP API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates an API client. tokens may be nil for purely public use; the
// token is re-read from the source on every request so a login or logout
// takes effect immediately.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ResolveURL turns a server-relative path (such as a product image) into an
// absolute URL against the API base. Already-absolute URLs pass through.
func (c *Client) ResolveURL(path string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the data half of a successful login response.
type LoginResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for a session token. Credentials are never
// retained beyond this single request.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.post(ctx, "/api/auth/login", LoginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if res.Token == "" || res.User.Username == "" {
		return nil, fmt.Errorf("client.Login: %w: missing user or token", ErrMalformedResponse)
	}
	return &res, nil
}

// Register creates a new account. No session is established; the caller logs
// in separately.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.post(ctx, "/api/auth/register", req, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// ListProducts fetches the full catalog. Public: no credential is required,
// though one is attached when present.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/api/products", &products); err != nil {
		return nil, fmt.Errorf("client.ListProducts: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product by ID. Protected.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if c.token() == "" {
		return nil, ErrNotAuthenticated
	}
	var p domain.Product
	if err := c.get(ctx, "/api/products/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetProduct: %w", err)
	}
	return &p, nil
}

// ProductForm carries the multipart fields for create and update. Price stays
// a string here; the form layer validates it before any network I/O.
// ImagePath names a local file to upload; empty means no image part.
type ProductForm struct {
	Name        string
	Price       string
	Description string
	ImagePath   string
}

// CreateProduct creates a product from multipart form fields. Protected.
func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (*domain.Product, error) {
	if c.token() == "" {
		return nil, ErrNotAuthenticated
	}
	var p domain.Product
	if err := c.doMultipart(ctx, http.MethodPost, "/api/products", form, &p); err != nil {
		return nil, fmt.Errorf("client.CreateProduct: %w", err)
	}
	return &p, nil
}

// UpdateProduct replaces a product's fields by ID. Protected.
func (c *Client) UpdateProduct(ctx context.Context, id string, form ProductForm) (*domain.Product, error) {
	if c.token() == "" {
		return nil, ErrNotAuthenticated
	}
	var p domain.Product
	if err := c.doMultipart(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), form, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProduct: %w", err)
	}
	return &p, nil
}

// DeleteProduct deletes a product by ID. Protected.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if c.token() == "" {
		return ErrNotAuthenticated
	}
	if err := c.doRequest(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProduct: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// doMultipart sends a product create/update as multipart/form-data: the text
// fields plus an optional image file part streamed from disk.
func (c *Client) doMultipart(ctx context.Context, method, path string, form ProductForm, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"price", form.Price},
		{"description", form.Description},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	if form.ImagePath != "" {
		src, err := os.Open(form.ImagePath)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer src.Close() //nolint:errcheck // best-effort close
		part, err := mw.CreateFormFile("image", filepath.Base(form.ImagePath))
		if err != nil {
			return fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, src); err != nil {
			return fmt.Errorf("read image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

// send attaches the bearer credential and a request ID, performs the call,
// and decodes the {"data": ...} response envelope into out.
func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode}
		}
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if out != nil {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("decode response data: %w", err)
			}
		}
	}
	return nil
}
