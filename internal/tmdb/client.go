package tmdb

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

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3/"
	defaultLanguage = "en_US"
	defaultTimeout  = 30 * time.Second
)

// Options configures a Client
type Options struct {
	BaseURL  string
	APIKey   string
	Language string
	Page     int
	Timeout  time.Duration
}

// Client is a thin REST client for the TMDB v3 API.
// Requests are not retried: a failure is returned to the caller as is.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	language   string
	page       int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, domain.ErrNotConfigured
	}

	raw := opts.BaseURL
	if raw == "" {
		raw = defaultBaseURL
	}
	// Relative endpoint paths resolve against the last segment only with a trailing slash
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	language := opts.Language
	if language == "" {
		language = defaultLanguage
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:  base,
		apiKey:   opts.APIKey,
		language: language,
		page:     page,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// Trending returns this week's trending titles (trending/all/week)
func (c *Client) Trending(ctx context.Context) (*MovieList, error) {
	return c.getList(ctx, "trending/all/week", nil)
}

// Popular returns the popular movies list (movie/popular)
func (c *Client) Popular(ctx context.Context) (*MovieList, error) {
	return c.getList(ctx, "movie/popular", nil)
}

// Upcoming returns the upcoming movies list (movie/upcoming)
func (c *Client) Upcoming(ctx context.Context) (*MovieList, error) {
	query := url.Values{}
	query.Set("language", c.language)
	query.Set("page", strconv.Itoa(c.page))
	return c.getList(ctx, "movie/upcoming", query)
}

// MovieDetails returns the full record for a movie (movie/{id})
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*Movie, error) {
	query := url.Values{}
	query.Set("language", c.language)

	var movie Movie
	if err := c.get(ctx, "movie/"+strconv.Itoa(movieID), query, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Search performs a text search over movies (search/movie)
func (c *Client) Search(ctx context.Context, term string) (*MovieList, error) {
	query := url.Values{}
	query.Set("query", term)
	query.Set("language", c.language)
	return c.getList(ctx, "search/movie", query)
}

func (c *Client) getList(ctx context.Context, path string, query url.Values) (*MovieList, error) {
	var list MovieList
	if err := c.get(ctx, path, query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// get performs an authenticated GET and decodes the JSON body into dest
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	if query == nil {
		query = url.Values{}
	}

	ref := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(ref)

	c.logger.Debug("tmdb request", "path", path, "query", query.Encode())

	query.Set("api_key", c.apiKey)
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("tmdb request failed", "path", path, "error", redact(err, c.apiKey))
		return fmt.Errorf("%w: %s", domain.ErrSourceOffline, redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &domain.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       statusMessage(body),
		}
		c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode, "body", httpErr.Body)
		return httpErr
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// statusMessage extracts TMDB's status_message, falling back to the raw body
func statusMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.StatusMessage != "" {
		return e.StatusMessage
	}
	return strings.TrimSpace(string(body))
}

// redact strips the API key out of transport errors, which embed the request URL
func redact(err error, apiKey string) string {
	var urlErr *url.Error
	msg := err.Error()
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		msg = urlErr.Err.Error()
	}
	if apiKey == "" {
		return msg
	}
	return strings.ReplaceAll(msg, apiKey, "REDACTED")
}
