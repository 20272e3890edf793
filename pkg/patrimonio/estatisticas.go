package patrimonio

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// EstatisticasClient handles interactions with the statistics resource of the
// upstream API.
type EstatisticasClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewEstatisticasClient creates a new statistics client.
func NewEstatisticasClient(baseURL, token string, logger *slog.Logger) (client *EstatisticasClient, err error) {
	if baseURL == "" {
		err = errors.New("estatisticas base URL is required")
		return client, err
	}

	client = &EstatisticasClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: HTTPTimeout,
		},
		logger: logger,
	}

	return client, err
}

// FetchEstatisticas retrieves the aggregate asset statistics.
func (c *EstatisticasClient) FetchEstatisticas(ctx context.Context) (result Estatisticas, err error) {
	err = doRequest(ctx, requestSpec{
		client:   c.httpClient,
		logger:   c.logger,
		resource: "estatisticas",
		method:   http.MethodGet,
		url:      c.baseURL + endpointEstatisticas + "/",
		token:    c.token,
	}, &result)
	return result, err
}
