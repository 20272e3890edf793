package patrimonio

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// VersionClient handles interactions with the upstream version endpoint. The
// endpoint is public, so this client deliberately carries no token.
type VersionClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewVersionClient creates a new version client.
func NewVersionClient(baseURL string, logger *slog.Logger) (client *VersionClient, err error) {
	if baseURL == "" {
		err = errors.New("version base URL is required")
		return client, err
	}

	client = &VersionClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: HTTPTimeout,
		},
		logger: logger,
	}

	return client, err
}

// FetchVersion retrieves the upstream API version information.
func (c *VersionClient) FetchVersion(ctx context.Context) (result VersionInfo, err error) {
	err = doRequest(ctx, requestSpec{
		client:   c.httpClient,
		logger:   c.logger,
		resource: "version",
		method:   http.MethodGet,
		url:      c.baseURL + endpointVersion,
	}, &result)
	return result, err
}
