package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/model"
)

// TransportError reports a failure to obtain a usable HTTP response: dial and
// DNS errors, timeouts, and non-2xx statuses without a structured body.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type ExchangeRateAPIClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  HTTPDoer
}

type Option func(*ExchangeRateAPIClient)

func WithBaseURL(baseURL string) Option {
	return func(c *ExchangeRateAPIClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *ExchangeRateAPIClient) {
		if doer != nil {
			c.client = doer
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect
// when WithHTTPDoer supplies the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *ExchangeRateAPIClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func NewExchangeRateAPIClient(apiKey string, opts ...Option) *ExchangeRateAPIClient {
	c := &ExchangeRateAPIClient{
		apiKey:  apiKey,
		baseURL: commons.DefaultExchangeRateBaseURL,
		timeout: commons.ExternalClientTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *ExchangeRateAPIClient) latestURL(base string) string {
	return fmt.Sprintf("%s/%s/latest/%s", c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(base))
}

// FetchLatest returns the provider's rate table for base. A payload with
// result "error" is returned as-is; interpreting it is up to the caller.
func (c *ExchangeRateAPIClient) FetchLatest(ctx context.Context, base string) (*model.RatesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(base), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", redact(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: redact(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, commons.MaxResponseBodyBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: redact(err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var rates model.RatesResponse
		if json.Unmarshal(body, &rates) == nil && rates.IsError() {
			return &rates, nil
		}
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("request failed with status code %d", resp.StatusCode),
		}
	}

	var rates model.RatesResponse
	if err := json.Unmarshal(body, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &rates, nil
}

// redact drops the request URL from *url.Error so the API key embedded in
// the path never reaches an error message.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// IsTimeout reports whether err came from a deadline or client timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}

var _ ExternalAPIClient = (*ExchangeRateAPIClient)(nil)
