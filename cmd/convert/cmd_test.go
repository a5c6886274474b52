package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, config commons.Config, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(config)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	var lastPath atomic.Value
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath.Store(r.URL.Path)
		w.Write([]byte(`{"result":"success","base_code":"USD","time_last_update_utc":"Fri, 27 Mar 2020 00:00:00 +0000","conversion_rates":{"USD":1,"EUR":0.92}}`))
	}))
	defer provider.Close()

	config := commons.Config{APIKey: "env-key", BaseURL: provider.URL}

	t.Run("Success", func(t *testing.T) {
		out, err := execute(t, config, "100", "usd", "eur")

		require.NoError(t, err)
		assert.JSONEq(t, `{"original_amount":100,"from_currency":"USD","to_currency":"EUR","converted_amount":92,"exchange_rate":0.92,"last_updated_utc":"2020-03-27T00:00:00Z"}`, out)
		assert.Equal(t, "/env-key/latest/USD", lastPath.Load())
	})

	t.Run("API key flag overrides the environment", func(t *testing.T) {
		_, err := execute(t, config, "--api-key", "flag-key", "1", "USD", "EUR")

		require.NoError(t, err)
		assert.Equal(t, "/flag-key/latest/USD", lastPath.Load())
	})

	t.Run("Conversion error exits non-zero", func(t *testing.T) {
		out, err := execute(t, config, "1", "USD", "ZZZ")

		assert.ErrorIs(t, err, errConversionFailed)
		assert.JSONEq(t, `{"error":"Target currency code 'ZZZ' not found in API response for base 'USD'. It might be an unsupported currency."}`, out)
	})

	t.Run("Invalid amount", func(t *testing.T) {
		out, err := execute(t, config, "abc", "USD", "EUR")

		assert.ErrorIs(t, err, errConversionFailed)
		assert.JSONEq(t, `{"error":"Amount must be a valid number."}`, out)
	})

	t.Run("Wrong number of arguments", func(t *testing.T) {
		_, err := execute(t, config, "1", "USD")

		assert.Error(t, err)
	})
}

func TestConvertCommand_MissingAPIKey(t *testing.T) {
	out, err := execute(t, commons.Config{BaseURL: "http://127.0.0.1:1"}, "1", "USD", "EUR")

	assert.ErrorIs(t, err, errConversionFailed)
	assert.JSONEq(t, `{"error":"API key not configured. Please set your exchangerate-api.com API key via EXCHANGERATE_API_KEY environment variable."}`, out)
}
