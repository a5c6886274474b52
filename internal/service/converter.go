package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/exchangerate"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/metrics"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/shopspring/decimal"
)

const (
	convertedAmountPlaces = 4
	exchangeRatePlaces    = 6
	unknownAPIError       = "Unknown API error"
	configurationMessage  = "API key not configured. Please set your exchangerate-api.com API key via EXCHANGERATE_API_KEY environment variable."
)

// upstreamTimestampLayouts covers the RFC 1123 variants the provider uses for
// time_last_update_utc, e.g. "Fri, 27 Mar 2020 00:00:00 +0000".
var upstreamTimestampLayouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

type apiErrorArm struct {
	kind    model.ErrorKind
	message func(from string) string
}

func fixedMessage(message string) func(string) string {
	return func(string) string { return message }
}

var apiErrors = map[string]apiErrorArm{
	"unknown-code": {
		kind: model.KindUnknownBaseCode,
		message: func(from string) string {
			return fmt.Sprintf("Unsupported or invalid base currency code for API: %s", from)
		},
	},
	"malformed-request": {kind: model.KindMalformedRequest, message: fixedMessage("Malformed request to the exchange rate API.")},
	"invalid-key":       {kind: model.KindInvalidKey, message: fixedMessage("Invalid API key provided for exchangerate-api.com.")},
	"inactive-account":  {kind: model.KindInactiveAccount, message: fixedMessage("API account is inactive.")},
	"quota-reached":     {kind: model.KindQuotaReached, message: fixedMessage("API request quota reached.")},
}

type CurrencyConverter struct {
	apiKey     string
	client     exchangerate.ExternalAPIClient
	clientOpts []exchangerate.Option
	timeout    time.Duration
	metrics    *metrics.ConversionMetrics
	now        func() time.Time
}

type Option func(*CurrencyConverter)

func WithBaseURL(baseURL string) Option {
	return func(c *CurrencyConverter) {
		c.clientOpts = append(c.clientOpts, exchangerate.WithBaseURL(baseURL))
	}
}

func WithHTTPDoer(doer exchangerate.HTTPDoer) Option {
	return func(c *CurrencyConverter) {
		c.clientOpts = append(c.clientOpts, exchangerate.WithHTTPDoer(doer))
	}
}

// WithExternalAPIClient replaces the exchangerate-api.com client entirely.
// WithBaseURL and WithHTTPDoer are ignored when it is set.
func WithExternalAPIClient(client exchangerate.ExternalAPIClient) Option {
	return func(c *CurrencyConverter) {
		c.client = client
	}
}

// WithTimeout bounds each upstream request. It also sets the timeout of the
// default HTTP client; a doer passed through WithHTTPDoer keeps its own.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CurrencyConverter) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithMetrics(m *metrics.ConversionMetrics) Option {
	return func(c *CurrencyConverter) {
		c.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *CurrencyConverter) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCurrencyConverter builds a converter for apiKey. The key is not
// validated here; an empty or placeholder key fails every conversion.
func NewCurrencyConverter(apiKey string, opts ...Option) *CurrencyConverter {
	c := &CurrencyConverter{
		apiKey:  strings.TrimSpace(apiKey),
		timeout: commons.ExternalClientTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		clientOpts := append([]exchangerate.Option{exchangerate.WithTimeout(c.timeout)}, c.clientOpts...)
		c.client = exchangerate.NewExchangeRateAPIClient(c.apiKey, clientOpts...)
	}
	return c
}

// Convert converts amount from one currency to another using the latest
// rates for from. Exactly one of the return values is non-nil, and the error
// is always a *model.ConversionError.
func (c *CurrencyConverter) Convert(ctx context.Context, amount float64, from, to string) (*model.ConversionResult, error) {
	result, convErr := c.convert(ctx, amount, from, to)
	if convErr != nil {
		c.metrics.RecordConversion(string(convErr.Kind))
		logger.Errorf("conversion %s->%s failed (%s): %s", from, to, convErr.Kind, convErr.Message)
		return nil, convErr
	}

	c.metrics.RecordConversion(metrics.OutcomeSuccess)
	logger.Infof("converted %v %s to %v %s at rate %v", result.OriginalAmount, result.FromCurrency, result.ConvertedAmount, result.ToCurrency, result.ExchangeRate)
	return result, nil
}

func (c *CurrencyConverter) convert(ctx context.Context, amount float64, from, to string) (result *model.ConversionResult, convErr *model.ConversionError) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			convErr = unexpected(fmt.Errorf("%v", r))
		}
	}()

	if c.apiKey == "" || commons.IsPlaceholderAPIKey(c.apiKey) {
		return nil, model.NewConversionError(model.KindConfiguration, configurationMessage)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, unexpected(errors.New("amount must be a finite number"))
	}

	fromUpper := strings.ToUpper(from)
	toUpper := strings.ToUpper(to)

	rates, err := c.fetch(ctx, fromUpper)
	if err != nil {
		return nil, classifyFetchError(err)
	}
	if rates == nil {
		return nil, unexpected(errors.New("empty response from exchange rate API"))
	}

	if rates.IsError() {
		return nil, apiError(rates.ErrorType, from)
	}

	if rates.ConversionRates == nil {
		return nil, model.NewConversionError(model.KindMissingRates, "Could not retrieve conversion rates from API response.")
	}
	if _, ok := rates.ConversionRates[fromUpper]; !ok {
		return nil, model.NewConversionError(model.KindSourceNotFound, fmt.Sprintf(
			"Currency code '%s' not found in API response for base '%s'. It might be an unsupported currency.",
			fromUpper, rates.BaseCode))
	}
	rate, ok := rates.ConversionRates[toUpper]
	if !ok {
		return nil, model.NewConversionError(model.KindTargetNotFound, fmt.Sprintf(
			"Target currency code '%s' not found in API response for base '%s'. It might be an unsupported currency.",
			toUpper, fromUpper))
	}
	if rate == nil {
		return nil, unexpected(fmt.Errorf("exchange rate for '%s' is null", toUpper))
	}

	decimalRate := decimal.NewFromFloat(*rate)
	converted, _ := decimal.NewFromFloat(amount).Mul(decimalRate).Round(convertedAmountPlaces).Float64()
	roundedRate, _ := decimalRate.Round(exchangeRatePlaces).Float64()

	return &model.ConversionResult{
		OriginalAmount:  amount,
		FromCurrency:    fromUpper,
		ToCurrency:      toUpper,
		ConvertedAmount: converted,
		ExchangeRate:    roundedRate,
		LastUpdatedUTC:  c.normalizeTimestamp(rates.TimeLastUpdateUTC),
	}, nil
}

func (c *CurrencyConverter) fetch(ctx context.Context, base string) (*model.RatesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	rates, err := c.client.FetchLatest(ctx, base)

	status := metrics.UpstreamOK
	switch {
	case exchangerate.IsTimeout(err):
		status = metrics.UpstreamTimeout
		logger.Warnf("exchange rate API did not answer within %s", c.timeout)
	case err != nil:
		status = metrics.UpstreamError
	}
	c.metrics.RecordUpstreamRequest(time.Since(start).Seconds(), status)
	return rates, err
}

// normalizeTimestamp renders the provider's update time as RFC 3339 UTC.
// An absent value falls back to the current time; a blank one does not parse.
func (c *CurrencyConverter) normalizeTimestamp(raw string) string {
	if raw == "" {
		return c.now().UTC().Format(time.RFC3339)
	}
	trimmed := strings.TrimSpace(raw)
	for _, layout := range upstreamTimestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	logger.Warnf("could not parse upstream timestamp %q", raw)
	return commons.TimestampParseError
}

func apiError(errorType, from string) *model.ConversionError {
	if arm, ok := apiErrors[errorType]; ok {
		return model.NewConversionError(arm.kind, arm.message(from))
	}
	if errorType == "" {
		errorType = unknownAPIError
	}
	return model.NewConversionError(model.KindUpstreamOther, fmt.Sprintf("API error: %s", errorType))
}

func classifyFetchError(err error) *model.ConversionError {
	var transportErr *exchangerate.TransportError
	if errors.As(err, &transportErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.NewConversionError(model.KindNetwork, fmt.Sprintf("Network request failed: %s", err))
	}
	return unexpected(err)
}

func unexpected(err error) *model.ConversionError {
	return model.NewConversionError(model.KindUnexpected, fmt.Sprintf("An unexpected error occurred: %s", err))
}

var _ CurrencyConverterInterface = (*CurrencyConverter)(nil)
