package printful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.printful.com"

	defaultTimeout = 30 * time.Second
	pageLimit      = 100
)

var (
	ErrNotFound      = errors.New("printful: not found")
	ErrNotConfigured = errors.New("printful: api key or store id not set")
)

// APIError is returned for any non-2xx response other than 404.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("printful API error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("printful API error %d: %s", e.StatusCode, e.Message)
}

type Config struct {
	BaseURL    string
	APIKey     string
	StoreID    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	apiKey     string
	storeID    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		storeID:    cfg.StoreID,
		httpClient: httpClient,
	}
}

func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.storeID != ""
}

func (c *Client) StoreID() string {
	return c.storeID
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-PF-Store-Id", c.storeID)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	slog.Debug("printful request", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return decodeAPIError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error.Message != "" {
			apiErr.Message = env.Error.Message
		}
		apiErr.Reason = env.Error.Reason
	}

	return apiErr
}

// ListStoreProducts returns every sync product in the configured store,
// following the offset paging the API applies.
func (c *Client) ListStoreProducts(ctx context.Context) ([]SyncProduct, error) {
	var products []SyncProduct
	offset := 0

	for {
		query := url.Values{}
		query.Set("offset", strconv.Itoa(offset))
		query.Set("limit", strconv.Itoa(pageLimit))

		var env envelope[[]SyncProduct]
		if err := c.get(ctx, "/store/products", query, &env); err != nil {
			return nil, err
		}

		products = append(products, env.Result...)

		if env.Paging == nil || len(env.Result) == 0 {
			break
		}
		offset += len(env.Result)
		if offset >= env.Paging.Total {
			break
		}
	}

	return products, nil
}

func (c *Client) GetStoreProduct(ctx context.Context, id string) (*StoreProduct, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}

	var env envelope[StoreProduct]
	if err := c.get(ctx, "/store/products/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}

	return &env.Result, nil
}

// TestConnection performs a single cheap list call to validate credentials.
func (c *Client) TestConnection(ctx context.Context) error {
	query := url.Values{}
	query.Set("limit", "1")

	var env envelope[[]SyncProduct]
	err := c.get(ctx, "/store/products", query, &env)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("invalid API key: %w", err)
	}
	return err
}
