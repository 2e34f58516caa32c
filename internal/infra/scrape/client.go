// Package scrape retrieves product pages through an external scraping
// proxy and classifies retrieval failures.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/avelar/pricewatch/internal/retry"
	"go.uber.org/zap"
)

// quota-exhaustion responses from the proxy come back as 403 with these
// markers in the body
var quotaMarkers = []string{"exhausted", "api credits"}

type Options struct {
	BaseURL     string
	APIKey      string
	DeviceType  string
	CountryCode string
	Render      bool
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

type Client struct {
	options Options
	client  *http.Client
	policy  retry.Policy
	logger  *zap.Logger
}

func NewClient(options Options, logger *zap.Logger) *Client {
	options.BaseURL = strings.TrimRight(options.BaseURL, "/")
	return &Client{
		options: options,
		client:  &http.Client{Timeout: options.Timeout},
		policy: retry.Policy{
			MaxAttempts: options.MaxAttempts,
			BaseDelay:   options.RetryDelay,
			Retryable:   IsTransient,
		},
		logger: logger,
	}
}

// Fetch retrieves the raw markup of one product page. Transient failures
// are retried internally; all other failures return a *domain.FetchError
// and are the caller's problem.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	endpoint := c.proxyURL(pageURL)

	var body []byte
	err := c.policy.Do(ctx, func() error {
		fetched, err := c.fetchOnce(ctx, pageURL, endpoint)
		if err != nil {
			return err
		}
		body = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, pageURL, endpoint string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.logger.Info("scrape request start", zap.String("page_url", pageURL))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("scrape request failed", zap.String("page_url", pageURL), zap.Error(err))
		return nil, &domain.FetchError{Kind: domain.FetchTransient, Err: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FetchTransient, Status: response.StatusCode, Err: err}
	}

	c.logger.Info(
		"scrape request complete",
		zap.String("page_url", pageURL),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return body, nil
	}
	return nil, classify(response.StatusCode, body)
}

func (c *Client) proxyURL(pageURL string) string {
	values := url.Values{}
	values.Set("api_key", c.options.APIKey)
	values.Set("url", pageURL)
	values.Set("device_type", c.options.DeviceType)
	values.Set("country_code", c.options.CountryCode)
	if c.options.Render {
		values.Set("render", "true")
	}
	return c.options.BaseURL + "/?" + values.Encode()
}

func classify(status int, body []byte) *domain.FetchError {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return &domain.FetchError{Kind: domain.FetchNotFound, Status: status}
	case status == http.StatusForbidden:
		lowered := strings.ToLower(string(body))
		for _, marker := range quotaMarkers {
			if strings.Contains(lowered, marker) {
				return &domain.FetchError{
					Kind:   domain.FetchBlocked,
					Status: status,
					Err:    fmt.Errorf("proxy quota exhausted"),
				}
			}
		}
		return &domain.FetchError{Kind: domain.FetchBlocked, Status: status}
	case status == http.StatusUnauthorized || status == http.StatusTooManyRequests:
		return &domain.FetchError{Kind: domain.FetchBlocked, Status: status}
	case status == http.StatusRequestTimeout || status >= 500:
		return &domain.FetchError{Kind: domain.FetchTransient, Status: status}
	default:
		return &domain.FetchError{Kind: domain.FetchUnknown, Status: status}
	}
}

// IsTransient reports whether err is a retryable fetch failure.
func IsTransient(err error) bool {
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind == domain.FetchTransient
	}
	return false
}
