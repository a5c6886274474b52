package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/service"
)

const maxRequestBodyBytes = 1 << 12

const invalidAmountMessage = "Amount must be a valid number."

type CurrencyHandler struct {
	converter service.CurrencyConverterInterface
}

func NewCurrencyHandler(converter service.CurrencyConverterInterface) *CurrencyHandler {
	return &CurrencyHandler{
		converter: converter,
	}
}

// ConvertCurrency handles GET /currency/convert?amount=&from=&to=.
func (h *CurrencyHandler) ConvertCurrency(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))
	amountStr := strings.TrimSpace(query.Get("amount"))

	if from == "" || to == "" || amountStr == "" {
		commons.RespondWithError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	amount, ok := parseAmount(amountStr)
	if !ok {
		commons.RespondWithError(w, http.StatusBadRequest, invalidAmountMessage)
		return
	}

	h.convert(w, r, amount, from, to)
}

// ConvertCurrencyJSON handles POST /currency/convert with a
// model.ConversionRequest body.
func (h *CurrencyHandler) ConvertCurrencyJSON(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount       *float64 `json:"amount"`
		FromCurrency string   `json:"from_currency"`
		ToCurrency   string   `json:"to_currency"`
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Amount == nil || strings.TrimSpace(req.FromCurrency) == "" || strings.TrimSpace(req.ToCurrency) == "" {
		commons.RespondWithError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	conversion := model.ConversionRequest{
		Amount:       *req.Amount,
		FromCurrency: strings.TrimSpace(req.FromCurrency),
		ToCurrency:   strings.TrimSpace(req.ToCurrency),
	}
	h.convert(w, r, conversion.Amount, conversion.FromCurrency, conversion.ToCurrency)
}

func (h *CurrencyHandler) convert(w http.ResponseWriter, r *http.Request, amount float64, from, to string) {
	result, err := h.converter.Convert(r.Context(), amount, from, to)
	if err != nil {
		var convErr *model.ConversionError
		if !errors.As(err, &convErr) {
			commons.RespondWithError(w, http.StatusInternalServerError, "Conversion failed")
			return
		}
		commons.RespondWithJSON(w, StatusForKind(convErr.Kind), convErr)
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, result)
}

// StatusForKind maps a conversion failure to the HTTP status returned to
// API clients. The body is always {"error": message}.
func StatusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindUnknownBaseCode, model.KindMalformedRequest, model.KindSourceNotFound, model.KindTargetNotFound:
		return http.StatusBadRequest
	case model.KindConfiguration, model.KindQuotaReached:
		return http.StatusServiceUnavailable
	case model.KindNetwork, model.KindInvalidKey, model.KindInactiveAccount, model.KindUpstreamOther, model.KindMissingRates:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseAmount accepts a decimal comma and rejects NaN and infinities.
func parseAmount(raw string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}
