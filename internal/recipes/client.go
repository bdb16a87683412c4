package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// API is the full set of backend operations used by the controller and CLI.
// *Client implements it; tests may substitute fakes.
type API interface {
	ListAll(ctx context.Context) ([]Recipe, error)
	Get(ctx context.Context, id int64) (Recipe, error)
	Create(ctx context.Context, draft Draft) (Recipe, error)
	Update(ctx context.Context, id int64, draft Draft) (Recipe, error)
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, query string) ([]Recipe, error)
	Filter(ctx context.Context, filters Filters) ([]Recipe, error)
	MealTypes(ctx context.Context) ([]Option, error)
	Cuisines(ctx context.Context) ([]Option, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the recipe backend over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tracer    trace.Tracer
}

const (
	// DefaultBaseURL is used when no API URL is configured.
	DefaultBaseURL     = "http://127.0.0.1:8000"
	defaultUserAgent   = "ladle/dev"
	defaultTimeout     = 10 * time.Second
	tracerName         = "github.com/five82/ladle/internal/recipes"
	requestIDHeader    = "X-Request-ID"
	contentTypeJSON    = "application/json"
	recipesCollection  = "recipes/"
	recipesSearchRoute = "recipes/search/"
	recipesFilterRoute = "recipes/filter/"
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTracerProvider sets the provider used for request spans.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewClient builds a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		tracer:    otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListAll retrieves every recipe.
func (c *Client) ListAll(ctx context.Context) ([]Recipe, error) {
	var out []Recipe
	if err := c.do(ctx, "ListAll", http.MethodGet, &url.URL{Path: recipesCollection}, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Get retrieves one recipe. A missing recipe matches ErrNotFound.
func (c *Client) Get(ctx context.Context, id int64) (Recipe, error) {
	var out Recipe
	if err := c.do(ctx, "Get", http.MethodGet, recipePath(id), nil, &out); err != nil {
		return Recipe{}, err
	}
	return out, nil
}

// Create submits a new recipe and returns the stored copy with its id.
func (c *Client) Create(ctx context.Context, draft Draft) (Recipe, error) {
	var out Recipe
	if err := c.do(ctx, "Create", http.MethodPost, &url.URL{Path: recipesCollection}, draft, &out); err != nil {
		return Recipe{}, err
	}
	return out, nil
}

// Update replaces the recipe with the given id.
func (c *Client) Update(ctx context.Context, id int64, draft Draft) (Recipe, error) {
	var out Recipe
	if err := c.do(ctx, "Update", http.MethodPut, recipePath(id), draft, &out); err != nil {
		return Recipe{}, err
	}
	return out, nil
}

// Remove deletes the recipe with the given id. The response body is ignored.
func (c *Client) Remove(ctx context.Context, id int64) error {
	return c.do(ctx, "Remove", http.MethodDelete, recipePath(id), nil, nil)
}

// Search returns the recipes matching the free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Recipe, error) {
	var out []Recipe
	if err := c.do(ctx, "Search", http.MethodGet, searchPath(query), nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Filter returns the recipes matching the non-empty filter keys.
func (c *Client) Filter(ctx context.Context, filters Filters) ([]Recipe, error) {
	rel := &url.URL{Path: recipesFilterRoute, RawQuery: filters.Values().Encode()}
	var out []Recipe
	if err := c.do(ctx, "Filter", http.MethodGet, rel, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// MealTypes lists the distinct meal types known to the backend.
func (c *Client) MealTypes(ctx context.Context) ([]Option, error) {
	var out []Option
	if err := c.do(ctx, "MealTypes", http.MethodGet, &url.URL{Path: "meal-types/"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cuisines lists the distinct cuisines known to the backend.
func (c *Client) Cuisines(ctx context.Context) ([]Option, error) {
	var out []Option
	if err := c.do(ctx, "Cuisines", http.MethodGet, &url.URL{Path: "cuisines/"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method string, rel *url.URL, body, dest any) (err error) {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	route := "/" + strings.TrimSuffix(rel.Path, "/")
	ctx, span := c.tracer.Start(ctx, "recipes."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", routeTemplate(op, route)),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	span.SetAttributes(attribute.String("http.request_id", requestID))
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: method, URL: reqURL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method: method,
			Path:   reqURL.Path,
			Status: resp.StatusCode,
			Body:   payload,
			Detail: errorDetail(payload),
		}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func recipePath(id int64) *url.URL {
	return &url.URL{Path: recipesCollection + strconv.FormatInt(id, 10)}
}

// searchPath escapes the query as a single path segment. Dot segments are
// percent-encoded so reference resolution cannot collapse them.
func searchPath(query string) *url.URL {
	segment := url.PathEscape(query)
	if query == "." || query == ".." {
		segment = strings.ReplaceAll(query, ".", "%2E")
	}
	return &url.URL{
		Path:    recipesSearchRoute + query,
		RawPath: recipesSearchRoute + segment,
	}
}

func routeTemplate(op, route string) string {
	switch op {
	case "Get", "Update", "Remove":
		return "/recipes/{id}"
	case "Search":
		return "/recipes/search/{query}"
	default:
		return route
	}
}

func nonNil(list []Recipe) []Recipe {
	if list == nil {
		return []Recipe{}
	}
	return list
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
