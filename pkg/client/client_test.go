package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jshoplabs/jshop/pkg/domain"
)

func envelope(v any) map[string]any {
	return map[string]any{"data": v}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "a@b.com" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(envelope(LoginResult{ //nolint:errcheck
			User:  domain.User{ID: 1, Username: "a", Role: domain.RoleAdmin},
			Token: "T1",
		}))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	res, err := c.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if res.Token != "T1" {
		t.Errorf("Token = %q, want %q", res.Token, "T1")
	}
	if res.User.Username != "a" || !res.User.IsAdmin() {
		t.Errorf("User = %+v, want admin 'a'", res.User)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	if err == nil {
		t.Fatal("expected error for rejected login")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %T, want *HTTPError", err)
	}
	if httpErr.Message != "Invalid email or password" {
		t.Errorf("Message = %q, want server message", httpErr.Message)
	}
}

func TestLogin_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(envelope(map[string]string{})) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), "a@b.com", "secret")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestRegister_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "email already in use"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.Register(context.Background(), "a", "a@b.com", "secret")
	if err == nil {
		t.Fatal("expected error for rejected registration")
	}
	if got := Reason(err); got != "email already in use" {
		t.Errorf("Reason(err) = %q, want server message", got)
	}
}

func TestListProducts_Public(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q without a session", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(envelope([]domain.Product{ //nolint:errcheck
			{ID: "p1", Name: "Keyboard", Price: 49.99},
			{ID: "p2", Name: "Mouse", Price: 19.5},
		}))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].Name != "Keyboard" || products[0].Price != 49.99 {
		t.Errorf("products[0] = %+v", products[0])
	}
}

func TestGetProduct_BearerAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		json.NewEncoder(w).Encode(envelope(domain.Product{ID: "p1", Name: "Keyboard"})) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok-1"))
	p, err := c.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetProduct() error: %v", err)
	}
	if p.Name != "Keyboard" {
		t.Errorf("Name = %q, want %q", p.Name, "Keyboard")
	}
}

func TestProtectedCallsRefusedWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("server must not be reached without a token")
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken(""))
	if _, err := c.GetProduct(context.Background(), "p1"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("GetProduct error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := c.CreateProduct(context.Background(), ProductForm{Name: "x"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("CreateProduct error = %v, want ErrNotAuthenticated", err)
	}
	if err := c.DeleteProduct(context.Background(), "p1"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("DeleteProduct error = %v, want ErrNotAuthenticated", err)
	}
}

func TestCreateProduct_Multipart(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(imgPath, []byte("fake-png-bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("name"); got != "Keyboard" {
			t.Errorf("name = %q", got)
		}
		if got := r.FormValue("price"); got != "49.99" {
			t.Errorf("price = %q", got)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer f.Close() //nolint:errcheck
		if hdr.Filename != "shot.png" {
			t.Errorf("image filename = %q", hdr.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(envelope(domain.Product{ //nolint:errcheck
			ID: "p9", Name: "Keyboard", Price: 49.99, Image: "/uploads/shot.png",
		}))
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	p, err := c.CreateProduct(context.Background(), ProductForm{
		Name:        "Keyboard",
		Price:       "49.99",
		Description: "mechanical",
		ImagePath:   imgPath,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error: %v", err)
	}
	if p.ID != "p9" {
		t.Errorf("ID = %q, want %q", p.ID, "p9")
	}
}

func TestUpdateProduct_NoImagePart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/products/p1" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if _, _, err := r.FormFile("image"); err == nil {
			t.Error("unexpected image part on update without a new image")
		}
		json.NewEncoder(w).Encode(envelope(domain.Product{ID: "p1", Name: "Mouse v2"})) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	p, err := c.UpdateProduct(context.Background(), "p1", ProductForm{Name: "Mouse v2", Price: "25"})
	if err != nil {
		t.Fatalf("UpdateProduct() error: %v", err)
	}
	if p.Name != "Mouse v2" {
		t.Errorf("Name = %q", p.Name)
	}
}

func TestDeleteProduct_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("stale"))
	err := c.DeleteProduct(context.Background(), "p1")
	if err == nil {
		t.Fatal("expected error for 401 delete")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(err) = false for %v", err)
	}
}

func TestResolveURL(t *testing.T) {
	c := New("http://localhost:5000", nil)
	cases := []struct{ in, want string }{
		{"", ""},
		{"/uploads/a.png", "http://localhost:5000/uploads/a.png"},
		{"uploads/a.png", "http://localhost:5000/uploads/a.png"},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
	}
	for _, tt := range cases {
		if got := c.ResolveURL(tt.in); got != tt.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorFallbackWithoutMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ListProducts(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := Reason(err); got != "HTTP error, status 500" {
		t.Errorf("Reason(err) = %q, want generic fallback", got)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %q, want status code in text", err.Error())
	}
}
