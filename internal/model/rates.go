package model

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// RatesResponse is the payload of the provider's "latest" endpoint for one
// base currency. ConversionRates is nil when the field is absent, and an
// entry is nil when the provider sent null for that code.
type RatesResponse struct {
	Result             string              `json:"result"`
	ErrorType          string              `json:"error-type,omitempty"`
	Documentation      string              `json:"documentation,omitempty"`
	TimeLastUpdateUnix int64               `json:"time_last_update_unix,omitempty"`
	TimeLastUpdateUTC  string              `json:"time_last_update_utc,omitempty"`
	TimeNextUpdateUnix int64               `json:"time_next_update_unix,omitempty"`
	TimeNextUpdateUTC  string              `json:"time_next_update_utc,omitempty"`
	BaseCode           string              `json:"base_code,omitempty"`
	ConversionRates    map[string]*float64 `json:"conversion_rates,omitempty"`
}

func (r *RatesResponse) IsError() bool {
	return r.Result == ResultError
}
