package model

import "encoding/json"

type ConversionRequest struct {
	Amount       float64 `json:"amount"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
}

type ConversionResult struct {
	OriginalAmount  float64 `json:"original_amount"`
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	ConvertedAmount float64 `json:"converted_amount"`
	ExchangeRate    float64 `json:"exchange_rate"`
	LastUpdatedUTC  string  `json:"last_updated_utc"`
}

// ErrorKind classifies a failed conversion. It is never exposed to callers,
// who only see the message.
type ErrorKind string

const (
	KindConfiguration    ErrorKind = "configuration"
	KindNetwork          ErrorKind = "network"
	KindUnknownBaseCode  ErrorKind = "upstream_unknown_code"
	KindMalformedRequest ErrorKind = "upstream_malformed_request"
	KindInvalidKey       ErrorKind = "upstream_invalid_key"
	KindInactiveAccount  ErrorKind = "upstream_inactive_account"
	KindQuotaReached     ErrorKind = "upstream_quota_reached"
	KindUpstreamOther    ErrorKind = "upstream_other"
	KindMissingRates     ErrorKind = "missing_rates"
	KindSourceNotFound   ErrorKind = "source_not_found"
	KindTargetNotFound   ErrorKind = "target_not_found"
	KindUnexpected       ErrorKind = "unexpected"
)

type ConversionError struct {
	Kind    ErrorKind
	Message string
}

func NewConversionError(kind ErrorKind, message string) *ConversionError {
	return &ConversionError{Kind: kind, Message: message}
}

func (e *ConversionError) Error() string {
	return e.Message
}

func (e *ConversionError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error string `json:"error"`
	}{Error: e.Message})
}
