package mealdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"recipefinder/internal/config"
	"recipefinder/internal/recipes/types"
)

// ErrNotFound is returned by Lookup when no meal has the id.
var ErrNotFound = errors.New("meal not found")

const maxBody = 2 << 20

var tracer = otel.Tracer("recipefinder/internal/mealdb")

// Client calls TheMealDB v1 JSON API.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

func NewClient(cfg config.MealDBConfig) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = config.DefaultMealDBURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid mealdb base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = slog.Default()
	rc.ErrorHandler = lastResponse

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
	}, nil
}

// lastResponse hands back the final response once retries run out so the
// status code is reported as a StatusError.
func lastResponse(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}

// Search returns every meal whose name matches term. No matches is an empty
// slice and a nil error.
func (c *Client) Search(ctx context.Context, term string) ([]types.Recipe, error) {
	params := url.Values{}
	params.Set("s", term)
	return c.meals(ctx, "search.php", params)
}

// Random returns one random meal, or nil if the service sent none.
func (c *Client) Random(ctx context.Context) (*types.Recipe, error) {
	meals, err := c.meals(ctx, "random.php", nil)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return &meals[0], nil
}

func (c *Client) Lookup(ctx context.Context, id string) (*types.Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("meal id is required")
	}
	params := url.Values{}
	params.Set("i", id)
	meals, err := c.meals(ctx, "lookup.php", params)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrNotFound
	}
	return &meals[0], nil
}

func (c *Client) meals(ctx context.Context, endpoint string, params url.Values) ([]types.Recipe, error) {
	ctx, span := tracer.Start(ctx, "mealdb."+strings.TrimSuffix(endpoint, ".php"),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("mealdb.query", params.Encode())))
	defer span.End()

	meals, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("mealdb.results", len(meals)))
	return meals, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]types.Recipe, error) {
	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	slog.DebugContext(ctx, "mealdb response", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	meals, err := ParseMeals(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s response: %w", endpoint, err)
	}
	return meals, nil
}
