package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 10 << 20
	maxErrorBody     = 512
)

// StatusError is returned when the content store answers with a non-2xx status.
type StatusError struct {
	Provider   string
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s api error: %s (%s %s)", e.Provider, status, e.Method, e.Path)
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Provider string
	BaseURL  string
	// APIPrefix is joined between BaseURL and every request path, e.g. "/api".
	APIPrefix string
	Token     string
	Timeout   time.Duration
	Client    *http.Client
}

// Fetcher issues JSON requests against one content store.
type Fetcher struct {
	provider string
	base     string
	token    string
	client   *http.Client
}

// NewFetcher validates cfg and builds a Fetcher.
func NewFetcher(cfg FetcherConfig) (*Fetcher, error) {
	if strings.TrimSpace(cfg.Provider) == "" {
		return nil, errors.New("fetcher provider name is required")
	}
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse %s base url: %w", cfg.Provider, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme must be http or https", cfg.Provider, cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid %s base url %q: host is required", cfg.Provider, cfg.BaseURL)
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	base := strings.TrimRight(u.String(), "/") + normalizePrefix(cfg.APIPrefix)

	return &Fetcher{
		provider: cfg.Provider,
		base:     base,
		token:    strings.TrimSpace(cfg.Token),
		client:   client,
	}, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// Provider returns the provider name used in errors.
func (f *Fetcher) Provider() string { return f.provider }

// GetJSON performs a GET on path with the given query and decodes the body into out.
func (f *Fetcher) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return f.do(ctx, http.MethodGet, path, query, nil, out)
}

// SendJSON encodes body, sends it with method, and decodes the response into out.
// out may be nil when the caller does not need the response.
func (f *Fetcher) SendJSON(ctx context.Context, method, path string, body, out any) error {
	return f.do(ctx, method, path, nil, body, out)
}

func (f *Fetcher) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := f.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request body: %w", f.provider, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", f.provider, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", f.provider, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Provider:   f.provider,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response for %s: %w", f.provider, path, err)
	}
	return nil
}
