package exchangerate

import (
	"context"
	"net/http"

	"github.com/Lutefd/currency-converter/internal/model"
)

// HTTPDoer is the single capability the client needs from the network.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ExternalAPIClient interface {
	FetchLatest(ctx context.Context, base string) (*model.RatesResponse, error)
}
