package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/loganlanou/podstore/internal/merch"
	"github.com/loganlanou/podstore/internal/store"
)

type fakeCatalog struct {
	products []catalog.Product
	listErr  error
	getErr   error
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]catalog.Product(nil), f.products...), nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) Overlay() *merch.Overlay {
	return merch.Default()
}

type fakeCheckout struct {
	mu        sync.Mutex
	calls     int
	lastItems []store.CartItem
	lastCust  checkout.Customer
	session   *checkout.Session
	createErr error
	getErr    error
}

func (f *fakeCheckout) CreateSession(ctx context.Context, items []store.CartItem, customer checkout.Customer) (*checkout.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastItems = items
	f.lastCust = customer
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.session, nil
}

func (f *fakeCheckout) GetSession(ctx context.Context, id string) (*checkout.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &checkout.Session{ID: id, Status: "complete", PaymentStatus: "paid", AmountTotal: 3998}, nil
}

func (f *fakeCheckout) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", Name: "Logo Tee", Price: "19.99", Image: "https://files.cdn.printful.com/p1.png", Category: "T-Shirts"},
		{ID: "p2", Name: "Dad Hat", Price: "24.00", Category: "Hats", BestSeller: true},
		{ID: "p3", Name: "Enamel Mug", Price: "12.50", Category: "Accessories", New: true},
	}
}

type testEnv struct {
	e        *echo.Echo
	svc      *Service
	catalog  *fakeCatalog
	checkout *fakeCheckout
	backend  *store.MemoryBackend
}

// setupTestEcho creates an Echo instance with routes registered
func setupTestEcho(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		catalog: &fakeCatalog{products: testProducts()},
		checkout: &fakeCheckout{session: &checkout.Session{
			ID:  "cs_test_123",
			URL: "https://checkout.stripe.com/c/pay/cs_test_123",
		}},
		backend: store.NewMemoryBackend(),
	}

	config := &Config{Environment: "test", Port: "8080", BaseURL: "http://localhost:8080"}
	config.Store.Backend = BackendMemory

	env.svc = New(config, env.catalog, env.checkout, store.NewManager(env.backend))

	env.e = echo.New()
	env.e.Use(SecurityHeaders())
	// Just set status code, don't write response
	env.e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); ok {
			c.Response().WriteHeader(he.Code)
		} else {
			c.Response().WriteHeader(http.StatusInternalServerError)
		}
	}
	env.svc.RegisterRoutes(env.e)

	return env
}

// shopperClient replays the session cookie so requests share a cart.
type shopperClient struct {
	t       *testing.T
	env     *testEnv
	cookies []*http.Cookie
}

func (env *testEnv) shopper(t *testing.T) *shopperClient {
	return &shopperClient{t: t, env: env}
}

func (s *shopperClient) do(req *http.Request) *httptest.ResponseRecorder {
	s.t.Helper()
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.env.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			s.cookies = []*http.Cookie{c}
		}
	}
	return rec
}

func (s *shopperClient) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *shopperClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return s.do(req)
}

func (s *shopperClient) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req)
}

func (s *shopperClient) sessionID() string {
	s.t.Helper()
	if len(s.cookies) == 0 {
		s.t.Fatal("no session cookie issued yet")
	}
	return s.cookies[0].Value
}
