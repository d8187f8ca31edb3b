package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/internal/utils"
	"github.com/stripe/stripe-go/v80"
	checkoutsession "github.com/stripe/stripe-go/v80/checkout/session"
)

const (
	Currency = "usd"

	// SessionIDPlaceholder is substituted by Stripe when redirecting back.
	SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
)

var (
	ErrNotConfigured = errors.New("checkout: store not configured")
	ErrInvalidInput  = errors.New("checkout: invalid input")
	ErrProvider      = errors.New("checkout: payment provider error")
)

// Customer is the shopper's contact and shipping details from the checkout form.
type Customer struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Address string `json:"address" form:"address"`
	City    string `json:"city" form:"city"`
	State   string `json:"state" form:"state"`
	Zip     string `json:"zip" form:"zip"`
}

// Session is the subset of a hosted checkout session the storefront uses.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	AmountTotal   int64  `json:"amountTotal,omitempty"`
}

// SessionAPI is satisfied by checkoutsession.Client.
type SessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type Config struct {
	SecretKey string
	StoreID   string
	BaseURL   string
}

type Gateway struct {
	api     SessionAPI
	storeID string
	baseURL string
	enabled bool
}

func NewGateway(cfg Config) *Gateway {
	g := NewGatewayWithAPI(&checkoutsession.Client{
		B:   stripe.GetBackend(stripe.APIBackend),
		Key: cfg.SecretKey,
	}, cfg)
	g.enabled = cfg.SecretKey != ""
	return g
}

func NewGatewayWithAPI(api SessionAPI, cfg Config) *Gateway {
	return &Gateway{
		api:     api,
		storeID: cfg.StoreID,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		enabled: true,
	}
}

func (g *Gateway) SuccessURL() string {
	return g.baseURL + "/success?session_id=" + SessionIDPlaceholder
}

func (g *Gateway) CancelURL() string {
	return g.baseURL + "/cancel"
}

// CreateSession opens a hosted checkout session for items. Every cart line
// is priced per unit and carries the cart quantity.
func (g *Gateway) CreateSession(ctx context.Context, items []store.CartItem, customer Customer) (*Session, error) {
	if g.storeID == "" || !g.enabled {
		return nil, ErrNotConfigured
	}

	lineItems, err := buildLineItems(items)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:       []*string{stripe.String("card")},
		LineItems:                lineItems,
		ClientReferenceID:        stripe.String(g.storeID),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: []*string{stripe.String(utils.ShippingCountry)},
		},
		SuccessURL: stripe.String(g.SuccessURL()),
		CancelURL:  stripe.String(g.CancelURL()),
	}
	params.Context = ctx

	if email := strings.TrimSpace(customer.Email); email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Metadata = customerMetadata(customer)

	session, err := g.api.New(params)
	if err != nil {
		return nil, providerError("create checkout session", err)
	}

	slog.Info("checkout session created", "session_id", session.ID, "items", len(items))
	return toSession(session), nil
}

func (g *Gateway) GetSession(ctx context.Context, id string) (*Session, error) {
	if !g.enabled {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := g.api.Get(id, params)
	if err != nil {
		return nil, providerError("get checkout session "+id, err)
	}
	return toSession(session), nil
}

func buildLineItems(items []store.CartItem) ([]*stripe.CheckoutSessionLineItemParams, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: item %q has no name", ErrInvalidInput, item.ID)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %q has quantity %d", ErrInvalidInput, item.ID, item.Quantity)
		}
		unitAmount, err := utils.ParseCents(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: item %q: %w", ErrInvalidInput, item.ID, err)
		}

		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
			Metadata: map[string]string{
				"product_id": item.ID,
			},
		}
		if item.Image != "" {
			productData.Images = []*string{stripe.String(item.Image)}
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(Currency),
				UnitAmount:  stripe.Int64(unitAmount),
				ProductData: productData,
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return lineItems, nil
}

func customerMetadata(c Customer) map[string]string {
	metadata := map[string]string{}
	add := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			metadata[key] = v
		}
	}
	add("customer_name", c.Name)
	add("customer_address", c.Address)
	add("customer_city", c.City)
	add("customer_state", c.State)
	add("customer_zip", c.Zip)
	return metadata
}

func providerError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		slog.Error("stripe request failed",
			"op", op,
			"code", stripeErr.Code,
			"type", stripeErr.Type,
			"status", stripeErr.HTTPStatusCode,
			"request_id", stripeErr.RequestID,
			"error", stripeErr.Msg,
		)
	} else {
		slog.Error("stripe request failed", "op", op, "error", err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrProvider, err)
}

func toSession(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:            s.ID,
		URL:           s.URL,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
	}
}
