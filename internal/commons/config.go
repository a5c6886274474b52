package commons

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	APIKey       string
	BaseURL      string
	PostgresConn string
	ServerPort   uint16
	AllowedRPS   int
}

const (
	decimalBase = 10
	bitSize     = 16
)

// LoadConfig reads the process environment. A missing or placeholder API key
// is not a load error: every conversion reports it instead.
func LoadConfig() (Config, error) {
	config := loadConverterConfig()
	var errors []string

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		errors = append(errors, "SERVER_PORT is not set")
	} else {
		parsedServerPort, err := strconv.ParseUint(serverPort, decimalBase, bitSize)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid SERVER_PORT: %s", err))
		} else {
			config.ServerPort = uint16(parsedServerPort)
		}
	}

	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		parsed, err := strconv.Atoi(rps)
		if err != nil || parsed <= 0 {
			errors = append(errors, fmt.Sprintf("invalid RATE_LIMIT_RPS: %q", rps))
		} else {
			config.AllowedRPS = parsed
		}
	}

	if len(errors) > 0 {
		for _, err := range errors {
			fmt.Println("Configuration Error:", err)
		}
		return Config{}, fmt.Errorf("configuration errors occurred")
	}

	return config, nil
}

// LoadConverterConfig reads only what a conversion needs; the CLI uses it.
func LoadConverterConfig() Config {
	return loadConverterConfig()
}

func loadConverterConfig() Config {
	config := Config{
		APIKey:       strings.TrimSpace(os.Getenv(APIKeyEnvVar)),
		BaseURL:      os.Getenv("EXCHANGERATE_BASE_URL"),
		PostgresConn: os.Getenv("POSTGRES_CONN"),
		AllowedRPS:   DefaultAllowedRPS,
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultExchangeRateBaseURL
	}
	return config
}

func (c Config) APIKeyConfigured() bool {
	return c.APIKey != "" && !IsPlaceholderAPIKey(c.APIKey)
}
