package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/service"
	"github.com/spf13/cobra"
)

var errConversionFailed = errors.New("conversion failed")

func newRootCommand(config commons.Config, opts ...service.Option) *cobra.Command {
	var (
		apiKey  string
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:           "convert <amount> <from> <to>",
		Short:         "Convert an amount between two currencies using exchangerate-api.com",
		Example:       "  convert 100 USD EUR",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(strings.Replace(args[0], ",", ".", 1), 64)
			if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
				writeJSON(cmd, map[string]string{"error": "Amount must be a valid number."})
				return errConversionFailed
			}

			converterOpts := append([]service.Option{
				service.WithBaseURL(baseURL),
				service.WithTimeout(timeout),
			}, opts...)
			converter := service.NewCurrencyConverter(apiKey, converterOpts...)

			result, err := converter.Convert(cmd.Context(), amount, args[1], args[2])
			if err != nil {
				writeJSON(cmd, err)
				return errConversionFailed
			}
			writeJSON(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", config.APIKey, "exchangerate-api.com API key (defaults to $"+commons.APIKeyEnvVar+")")
	cmd.Flags().StringVar(&baseURL, "base-url", config.BaseURL, "exchangerate-api.com v6 base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", commons.ExternalClientTimeout, "upstream request timeout")

	return cmd
}

func writeJSON(cmd *cobra.Command, payload any) {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error marshalling JSON: %s\n", err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
