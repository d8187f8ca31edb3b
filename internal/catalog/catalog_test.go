package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/loganlanou/podstore/internal/merch"
	"github.com/loganlanou/podstore/internal/printful"
	"github.com/loganlanou/podstore/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeProvider struct {
	mu       sync.Mutex
	products map[string]*printful.StoreProduct
	order    []string
	listErr  error
	failID   string
	failErr  error
	delay    time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{products: map[string]*printful.StoreProduct{}}
}

func (f *fakeProvider) add(id, name, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.order = append(f.order, id)
	f.products[id] = &printful.StoreProduct{
		SyncProduct: printful.SyncProduct{ID: printful.ID(id), Name: name, Description: "About " + name},
		SyncVariants: []printful.SyncVariant{
			{
				RetailPrice: price,
				Files: []printful.File{
					{Type: "default", PreviewURL: "https://files.cdn.printful.com/" + id + "-default.png"},
					{Type: "preview", PreviewURL: "https://files.cdn.printful.com/" + id + ".png"},
				},
			},
			{RetailPrice: "99.99"},
		},
	}
}

func (f *fakeProvider) ListStoreProducts(ctx context.Context) ([]printful.SyncProduct, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]printful.SyncProduct, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, printful.SyncProduct{ID: printful.ID(id)})
	}
	return out, nil
}

func (f *fakeProvider) GetStoreProduct(ctx context.Context, id string) (*printful.StoreProduct, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if id == f.failID {
		return nil, f.failErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, printful.ErrNotFound
	}
	return p, nil
}

func TestListProducts_Normalizes(t *testing.T) {
	provider := newFakeProvider()
	provider.add("1", "Logo Tee", "19.99")
	provider.add("2", "Dad Hat", "24.50")

	overlay := &merch.Overlay{Products: map[string]merch.Entry{
		"2": {Category: "Hats", BestSeller: true},
	}}
	svc := NewService(provider, WithOverlay(overlay))

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, Product{
		ID:          "1",
		Name:        "Logo Tee",
		Image:       "https://files.cdn.printful.com/1.png",
		Price:       "19.99",
		Description: "About Logo Tee",
	}, products[0])
	assert.Equal(t, "Hats", products[1].Category)
	assert.True(t, products[1].BestSeller)
}

func TestListProducts_EveryProductHasIdentityAndPrice(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 25; i++ {
		price := utils.FormatCents(int64(gofakeit.Number(0, 10000)))
		provider.add(fmt.Sprintf("%d", 1000+i), gofakeit.ProductName(), price)
	}

	products, err := NewService(provider).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 25)

	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		cents, err := utils.ParseCents(p.Price)
		require.NoError(t, err, "price %q for %s", p.Price, p.ID)
		assert.GreaterOrEqual(t, cents, int64(0))
	}
}

func TestListProducts_PreservesListOrder(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 10; i++ {
		provider.add(fmt.Sprintf("p%d", i), fmt.Sprintf("Product %d", i), "1.00")
	}

	products, err := NewService(provider).ListProducts(context.Background())
	require.NoError(t, err)
	for i, p := range products {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.ID)
	}
}

func TestListProducts_FirstFailureAbortsListing(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 8; i++ {
		provider.add(fmt.Sprintf("p%d", i), "Product", "1.00")
	}
	provider.failID = "p3"
	provider.failErr = &printful.APIError{StatusCode: 500, Message: "boom"}
	provider.delay = 5 * time.Millisecond

	products, err := NewService(provider).ListProducts(context.Background())
	assert.Nil(t, products)
	assert.ErrorIs(t, err, ErrUpstream)

	var apiErr *printful.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestListProducts_MissingDetailIsUpstreamError(t *testing.T) {
	provider := newFakeProvider()
	provider.add("p1", "Product", "1.00")
	provider.failID = "p1"
	provider.failErr = printful.ErrNotFound

	_, err := NewService(provider).ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestListProducts_FanoutLimit(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 12; i++ {
		provider.add(fmt.Sprintf("p%d", i), "Product", "1.00")
	}
	provider.delay = 5 * time.Millisecond

	_, err := NewService(provider, WithFanoutLimit(3)).ListProducts(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, provider.maxInFlight.Load(), int32(3))
}

func TestListProducts_Unbounded(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 12; i++ {
		provider.add(fmt.Sprintf("p%d", i), "Product", "1.00")
	}
	provider.delay = 20 * time.Millisecond

	_, err := NewService(provider).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Greater(t, provider.maxInFlight.Load(), int32(1))
}

func TestListProducts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		listErr error
		want    error
	}{
		{"not configured", printful.ErrNotConfigured, ErrNotConfigured},
		{"api error", &printful.APIError{StatusCode: 401, Message: "unauthorized"}, ErrUpstream},
		{"network", errors.New("dial tcp: connection refused"), ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newFakeProvider()
			provider.listErr = tt.listErr

			_, err := NewService(provider).ListProducts(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetProduct(t *testing.T) {
	provider := newFakeProvider()
	provider.add("42", "Sticker", "3.00")
	svc := NewService(provider)

	product, err := svc.GetProduct(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Sticker", product.Name)
	assert.Equal(t, "3.00", product.Price)
	assert.Equal(t, "About Sticker", product.Description)

	_, err = svc.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalize_NoVariants(t *testing.T) {
	svc := NewService(newFakeProvider())
	product := svc.normalize(&printful.StoreProduct{
		SyncProduct: printful.SyncProduct{ID: "5", Name: "Draft"},
	})
	assert.Equal(t, "5", product.ID)
	assert.Empty(t, product.Price)
	assert.Empty(t, product.Image)
}
