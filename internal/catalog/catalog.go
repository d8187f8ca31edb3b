package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/loganlanou/podstore/internal/merch"
	"github.com/loganlanou/podstore/internal/printful"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotConfigured = errors.New("catalog: store not configured")
	ErrNotFound      = errors.New("catalog: product not found")
	ErrUpstream      = errors.New("catalog: upstream provider error")
)

// Product is the flat record served to the storefront.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	BestSeller  bool   `json:"bestSeller,omitempty"`
	New         bool   `json:"new,omitempty"`
}

// Provider is the subset of the Printful client the catalog needs.
type Provider interface {
	ListStoreProducts(ctx context.Context) ([]printful.SyncProduct, error)
	GetStoreProduct(ctx context.Context, id string) (*printful.StoreProduct, error)
}

type Service struct {
	provider    Provider
	overlay     *merch.Overlay
	fanoutLimit int
}

type Option func(*Service)

// WithFanoutLimit bounds concurrent detail calls during ListProducts.
// Zero or negative leaves the fan-out unbounded.
func WithFanoutLimit(n int) Option {
	return func(s *Service) {
		s.fanoutLimit = n
	}
}

func WithOverlay(overlay *merch.Overlay) Option {
	return func(s *Service) {
		s.overlay = overlay
	}
}

func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		overlay:  merch.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Overlay() *merch.Overlay {
	return s.overlay
}

// ListProducts lists the store's sync products and fetches each one's detail
// concurrently. The first failing detail call cancels the others and fails
// the whole listing.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	start := time.Now()

	summaries, err := s.provider.ListStoreProducts(ctx)
	if err != nil {
		return nil, classify(err, "list store products")
	}

	products := make([]Product, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	if s.fanoutLimit > 0 {
		g.SetLimit(s.fanoutLimit)
	}

	for i, summary := range summaries {
		id := summary.ID.String()
		g.Go(func() error {
			detail, err := s.provider.GetStoreProduct(gctx, id)
			if errors.Is(err, printful.ErrNotFound) {
				// listed a moment ago, so this is the provider's inconsistency
				return fmt.Errorf("get store product %s: %w: %w", id, ErrUpstream, err)
			}
			if err != nil {
				return classify(err, "get store product "+id)
			}
			products[i] = s.normalize(detail)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("failed to fetch products from printful", "error", err, "count", len(summaries))
		return nil, err
	}

	slog.Debug("catalog listed", "count", len(products), "duration", time.Since(start))
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	detail, err := s.provider.GetStoreProduct(ctx, id)
	if err != nil {
		return nil, classify(err, "get store product "+id)
	}

	product := s.normalize(detail)
	return &product, nil
}

func (s *Service) normalize(detail *printful.StoreProduct) Product {
	product := Product{
		ID:          detail.SyncProduct.ID.String(),
		Name:        detail.SyncProduct.Name,
		Description: detail.SyncProduct.Description,
	}

	if len(detail.SyncVariants) > 0 {
		variant := detail.SyncVariants[0]
		product.Price = variant.RetailPrice
		product.Image = variant.PreviewURL()
	}

	entry := s.overlay.Lookup(product.ID)
	product.Category = entry.Category
	product.BestSeller = entry.BestSeller
	product.New = entry.New

	return product
}

func classify(err error, op string) error {
	switch {
	case errors.Is(err, printful.ErrNotConfigured):
		return fmt.Errorf("%s: %w", op, ErrNotConfigured)
	case errors.Is(err, printful.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}
}
