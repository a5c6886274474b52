package commons

import "time"

const (
	DefaultExchangeRateBaseURL = "https://v6.exchangerate-api.com/v6"
	APIKeyEnvVar               = "EXCHANGERATE_API_KEY"
	ExternalClientTimeout      = 10 * time.Second
	MaxResponseBodyBytes       = 1 << 20
	TimestampParseError        = "Timestamp parse error"
	DefaultAllowedRPS          = 10
	ServerIdleTimeout          = time.Minute
	ServerReadTimeout          = 10 * time.Second
	ServerWriteTimeout         = 30 * time.Second
	ServerShutdownTimeout      = 10 * time.Second
	LoggerShutdownTimeout      = 5 * time.Second
)

// placeholderAPIKeys are values that ship in sample configuration and must
// never be sent upstream.
var placeholderAPIKeys = map[string]struct{}{
	"YOUR-API-KEY":             {},
	"58697ea4ff573d9ae9296b35": {},
}

func IsPlaceholderAPIKey(key string) bool {
	_, ok := placeholderAPIKeys[key]
	return ok
}
