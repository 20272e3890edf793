// Package patrimonio provides HTTP clients for the upstream asset-management
// API: one client per logical resource (assets, statistics, version). Every
// call issues exactly one request with a fixed timeout and maps failures into
// the apperr taxonomy; there is no retry logic.
package patrimonio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neviim/mcppatrimonio/pkg/apperr"
	"github.com/neviim/mcppatrimonio/pkg/metrics"
)

// HTTPTimeout is the absolute per-call deadline for upstream requests.
const HTTPTimeout = 30 * time.Second

// Upstream API endpoints.
const (
	endpointPatrimonios  = "/api/v1/patrimonios"
	endpointEstatisticas = "/api/v1/estatisticas"
	endpointVersion      = "/version"
)

// Client handles interactions with the patrimônios resource of the upstream
// API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new asset API client. The trailing slash of the base
// URL is stripped so request paths are stable.
func NewClient(baseURL, token string, logger *slog.Logger) (client *Client, err error) {
	if baseURL == "" {
		err = errors.New("patrimonio base URL is required")
		return client, err
	}

	client = &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: HTTPTimeout,
		},
		logger: logger,
	}

	return client, err
}

// FetchPatrimonio retrieves an asset by its number.
func (c *Client) FetchPatrimonio(ctx context.Context, numero string) (result Patrimonio, err error) {
	endpoint := endpointPatrimonios + "/patrimonio/" + url.PathEscape(numero)
	err = c.request(ctx, http.MethodGet, endpoint, nil, &result)
	return result, err
}

// FetchPatrimoniosPorSetor retrieves the assets assigned to a sector.
func (c *Client) FetchPatrimoniosPorSetor(ctx context.Context, setor string) (result []Patrimonio, err error) {
	endpoint := endpointPatrimonios + "/setor/" + url.PathEscape(setor)
	err = c.request(ctx, http.MethodGet, endpoint, nil, &result)
	return result, err
}

// FetchPatrimoniosPorUsuario retrieves the assets assigned to a user.
func (c *Client) FetchPatrimoniosPorUsuario(ctx context.Context, usuario string) (result []Patrimonio, err error) {
	endpoint := endpointPatrimonios + "/usuario/" + url.PathEscape(usuario)
	err = c.request(ctx, http.MethodGet, endpoint, nil, &result)
	return result, err
}

// FetchPatrimonioPorID retrieves an asset by its id.
func (c *Client) FetchPatrimonioPorID(ctx context.Context, id string) (result Patrimonio, err error) {
	endpoint := endpointPatrimonios + "/" + url.PathEscape(id)
	err = c.request(ctx, http.MethodGet, endpoint, nil, &result)
	return result, err
}

// UpdatePatrimonio updates an asset. Exactly one PUT is issued; there is no
// automatic retry or dedup.
func (c *Client) UpdatePatrimonio(ctx context.Context, id string, data map[string]interface{}) (result Patrimonio, err error) {
	endpoint := endpointPatrimonios + "/" + url.PathEscape(id)
	err = c.request(ctx, http.MethodPut, endpoint, data, &result)
	return result, err
}

// CreatePatrimonio creates a new asset.
func (c *Client) CreatePatrimonio(ctx context.Context, data map[string]interface{}) (result Patrimonio, err error) {
	err = c.request(ctx, http.MethodPost, endpointPatrimonios+"/", data, &result)
	return result, err
}

// request performs one HTTP request against the upstream API and decodes the
// JSON response into out. Failures are mapped into the apperr taxonomy via
// doRequest.
func (c *Client) request(ctx context.Context, method, endpoint string, body interface{}, out interface{}) (err error) {
	err = doRequest(ctx, requestSpec{
		client:   c.httpClient,
		logger:   c.logger,
		resource: "patrimonios",
		method:   method,
		url:      c.baseURL + endpoint,
		token:    c.token,
		body:     body,
	}, out)
	return err
}

// requestSpec describes a single upstream HTTP call.
type requestSpec struct {
	client   *http.Client
	logger   *slog.Logger
	resource string
	method   string
	url      string
	token    string
	body     interface{}
}

// doRequest is the shared request path for all upstream clients. HTTP 2xx
// decodes the body into out; 404 maps to NotFound with the resolved URL; any
// other status maps to External with status, status text and best-effort
// body; transport failures map to External wrapping the cause. Errors that
// are already apperr values propagate unchanged.
func doRequest(ctx context.Context, spec requestSpec, out interface{}) (err error) {
	err = performRequest(ctx, spec, out)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(spec.resource, metrics.StatusError).Inc()

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}

		spec.logger.ErrorContext(ctx, "upstream request failed",
			slog.String("url", spec.url),
			slog.String("error", err.Error()))
		err = apperr.NewExternal(fmt.Sprintf("Falha na comunicação com a API: %s", err.Error()), err)
		return err
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(spec.resource, metrics.StatusSuccess).Inc()
	return err
}

// performRequest issues the HTTP call and maps status codes.
func performRequest(ctx context.Context, spec requestSpec, out interface{}) (err error) {
	var reqBody io.Reader
	if spec.body != nil {
		var jsonBytes []byte
		jsonBytes, err = json.Marshal(spec.body)
		if err != nil {
			err = fmt.Errorf("marshaling request body: %w", err)
			return err
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, spec.method, spec.url, reqBody)
	if err != nil {
		err = fmt.Errorf("creating request: %w", err)
		return err
	}

	req.Header.Set("Accept", "application/json")
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if spec.token != "" {
		req.Header.Set("Authorization", "Bearer "+spec.token)
	}

	spec.logger.DebugContext(ctx, "making upstream request",
		slog.String("method", spec.method),
		slog.String("url", spec.url))

	var resp *http.Response
	resp, err = spec.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Best effort: a failure to read the body must not mask the
		// original error.
		text, _ := io.ReadAll(resp.Body)

		if resp.StatusCode == http.StatusNotFound {
			err = apperr.NewNotFound(fmt.Sprintf("Recurso não encontrado: %s", spec.url))
			return err
		}

		message := fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if len(text) > 0 {
			message += " - " + string(text)
		}
		err = apperr.NewExternal(message, nil)
		return err
	}

	var responseBody []byte
	responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("reading response body: %w", err)
		return err
	}

	err = json.Unmarshal(responseBody, out)
	if err != nil {
		err = fmt.Errorf("unmarshaling response: %w", err)
		return err
	}

	return err
}
