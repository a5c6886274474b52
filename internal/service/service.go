package service

import (
	"context"

	"github.com/Lutefd/currency-converter/internal/model"
)

// CurrencyConverterInterface is what the HTTP handler and the CLI depend on.
// A non-nil error is always a *model.ConversionError.
type CurrencyConverterInterface interface {
	Convert(ctx context.Context, amount float64, from, to string) (*model.ConversionResult, error)
}
