package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"autoparts/internal/logging"
	"autoparts/internal/model"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout        = 5 * time.Second
	defaultImageCacheSize = 64
)

// Options configures a Client.
type Options struct {
	BaseURL        string
	AssetBaseURL   string
	Timeout        time.Duration
	RateLimit      float64 // requests per second, 0 disables limiting
	ImageCacheSize int
	Transport      http.RoundTripper
	Logger         *logging.Logger
}

// Client wraps the vehicle and product catalog API. It never retries.
type Client struct {
	baseURL      string
	assetBaseURL string
	httpClient   *http.Client
	limiter      *rate.Limiter
	images       *lru.Cache[string, image.Image]
	log          *logging.Logger
}

// NewClient creates a catalog client.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ImageCacheSize <= 0 {
		opts.ImageCacheSize = defaultImageCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	assetBase := opts.AssetBaseURL
	if assetBase == "" {
		assetBase = opts.BaseURL
	}

	images, _ := lru.New[string, image.Image](opts.ImageCacheSize)

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		assetBaseURL: strings.TrimRight(assetBase, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		limiter: limiter,
		images:  images,
		log:     opts.Logger,
	}
}

// Brands lists every brand.
func (c *Client) Brands(ctx context.Context) ([]model.Brand, error) {
	reqURL, raw, err := c.getJSON(ctx, "brands")
	if err != nil {
		return []model.Brand{}, err
	}
	return decodeList[model.Brand](reqURL, raw)
}

// Models lists the models of a brand.
func (c *Client) Models(ctx context.Context, brandID int64) ([]model.VehicleModel, error) {
	reqURL, raw, err := c.getJSON(ctx, "models", strconv.FormatInt(brandID, 10))
	if err != nil {
		return []model.VehicleModel{}, err
	}
	return decodeList[model.VehicleModel](reqURL, raw)
}

// Generations lists the generations of a model.
func (c *Client) Generations(ctx context.Context, modelID int64) ([]model.Generation, error) {
	reqURL, raw, err := c.getJSON(ctx, "generations", strconv.FormatInt(modelID, 10))
	if err != nil {
		return []model.Generation{}, err
	}
	return decodeList[model.Generation](reqURL, raw)
}

// FuelTypes lists the fuel types of a generation.
func (c *Client) FuelTypes(ctx context.Context, generationID int64) ([]model.FuelType, error) {
	reqURL, raw, err := c.getJSON(ctx, "fuel-types", strconv.FormatInt(generationID, 10))
	if err != nil {
		return []model.FuelType{}, err
	}
	return decodeList[model.FuelType](reqURL, raw)
}

// CompatibleProducts lists the products of category that fit the fuel type.
// Without a fuel type or a category no request is made.
func (c *Client) CompatibleProducts(ctx context.Context, fuelTypeID int64, category model.ProductCategory) ([]model.Product, error) {
	if fuelTypeID == 0 || category == "" {
		return []model.Product{}, nil
	}

	reqURL, raw, err := c.getJSON(ctx, "products", strconv.FormatInt(fuelTypeID, 10), string(category))
	if err != nil {
		return []model.Product{}, err
	}
	rows, err := decodeList[rawProduct](reqURL, raw)
	if err != nil {
		return []model.Product{}, err
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.normalize())
	}
	return products, nil
}

// getJSON issues a GET for the escaped path segments and returns the body once
// it is known to be valid JSON.
func (c *Client) getJSON(ctx context.Context, segments ...string) (string, json.RawMessage, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	reqURL := c.baseURL + "/" + strings.Join(escaped, "/")

	body, err := c.get(ctx, reqURL, "application/json")
	if err != nil {
		return reqURL, nil, err
	}
	if !json.Valid(body) {
		return reqURL, nil, &DecodeError{URL: reqURL, Err: fmt.Errorf("invalid JSON body (%d bytes)", len(body))}
	}
	return reqURL, body, nil
}

func (c *Client) get(ctx context.Context, reqURL, accept string) ([]byte, error) {
	requestID := uuid.NewString()
	ctx = c.log.WithFields(ctx, map[string]any{"request_id": requestID, "url": reqURL})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "catalog request failed")
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	ctx = c.log.WithFields(ctx, map[string]any{"status": resp.StatusCode, "elapsed_ms": time.Since(start).Milliseconds()})
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn(ctx, "catalog request rejected")
		return nil, &HTTPError{Status: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	c.log.Debug(ctx, "catalog request done")
	return body, nil
}

// decodeList decodes a JSON array. Any other JSON value yields an empty list.
func decodeList[T any](reqURL string, raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	items := []T{}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return []T{}, &DecodeError{URL: reqURL, Err: err}
	}
	return items, nil
}
