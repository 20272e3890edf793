package patrimonio

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neviim/mcppatrimonio/pkg/apperr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	logger := testLogger()

	client, err := NewClient("http://x.com", "token", logger)
	require.NoError(t, err)
	assert.Equal(t, "http://x.com", client.baseURL)

	_, err = NewClient("", "token", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL is required")
}

func TestNewClientStripsTrailingSlash(t *testing.T) {
	t.Parallel()

	logger := testLogger()

	withSlash, err := NewClient("http://x.com/", "token", logger)
	require.NoError(t, err)

	withoutSlash, err := NewClient("http://x.com", "token", logger)
	require.NoError(t, err)

	assert.Equal(t, withoutSlash.baseURL, withSlash.baseURL)
}

func TestFetchPatrimonio(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name           string
		numero         string
		serverStatus   int
		serverResponse string
		wantPath       string
		expectErr      bool
		wantKind       apperr.Kind
		errorContains  string
	}{
		{
			name:           "success",
			numero:         "PAT-001",
			serverStatus:   http.StatusOK,
			serverResponse: `{"id":"u1","numero":"PAT-001","setor":"TI"}`,
			wantPath:       "/api/v1/patrimonios/patrimonio/PAT-001",
		},
		{
			name:          "not_found_maps_to_apperr",
			numero:        "PAT-404",
			serverStatus:  http.StatusNotFound,
			wantPath:      "/api/v1/patrimonios/patrimonio/PAT-404",
			expectErr:     true,
			wantKind:      apperr.KindNotFound,
			errorContains: "Recurso não encontrado",
		},
		{
			name:           "server_error_maps_to_external",
			numero:         "PAT-500",
			serverStatus:   http.StatusInternalServerError,
			serverResponse: `boom`,
			wantPath:       "/api/v1/patrimonios/patrimonio/PAT-500",
			expectErr:      true,
			wantKind:       apperr.KindExternal,
			errorContains:  "HTTP 500 Internal Server Error - boom",
		},
		{
			name:         "percent_encoded_path_segment",
			numero:       "ABC/123",
			serverStatus: http.StatusOK,
			// The slash must arrive escaped, not as a path separator.
			serverResponse: `{"numero":"ABC/123"}`,
			wantPath:       "/api/v1/patrimonios/patrimonio/ABC%2F123",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotPath string
			var gotAuth string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.EscapedPath()
				gotAuth = r.Header.Get("Authorization")
				assert.Equal(t, "application/json", r.Header.Get("Accept"))

				w.WriteHeader(tt.serverStatus)
				_, _ = w.Write([]byte(tt.serverResponse))
			}))
			defer server.Close()

			client, err := NewClient(server.URL, "secret-token", testLogger())
			require.NoError(t, err)

			result, err := client.FetchPatrimonio(ctx, tt.numero)

			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, "Bearer secret-token", gotAuth)

			if tt.expectErr {
				require.Error(t, err)
				appErr, ok := apperr.As(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantKind, appErr.Kind)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.numero, result["numero"])
		})
	}
}

func TestFetchBySetorAndUsuario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/api/v1/patrimonios/setor/Almoxarifado":
			_, _ = w.Write([]byte(`[{"numero":"PAT-1"},{"numero":"PAT-2"}]`))
		case "/api/v1/patrimonios/usuario/maria%20silva":
			_, _ = w.Write([]byte(`[{"numero":"PAT-3"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", testLogger())
	require.NoError(t, err)

	porSetor, err := client.FetchPatrimoniosPorSetor(ctx, "Almoxarifado")
	require.NoError(t, err)
	assert.Len(t, porSetor, 2)

	porUsuario, err := client.FetchPatrimoniosPorUsuario(ctx, "maria silva")
	require.NoError(t, err)
	assert.Len(t, porUsuario, 1)
}

func TestUpdateAndCreatePatrimonio(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var gotMethod, gotPath, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"id":"u1","setor":"TI"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", testLogger())
	require.NoError(t, err)

	updated, err := client.UpdatePatrimonio(ctx, "u1", map[string]interface{}{"setor": "TI"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/patrimonios/u1", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "TI", updated["setor"])

	created, err := client.CreatePatrimonio(ctx, map[string]interface{}{"numero": "PAT-9"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/patrimonios/", gotPath)
	assert.Equal(t, "u1", created["id"])
}

func TestNetworkFailureMapsToExternal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client, err := NewClient(server.URL, "tok", testLogger())
	require.NoError(t, err)

	_, err = client.FetchPatrimonio(ctx, "PAT-1")
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindExternal, appErr.Kind)
	assert.Contains(t, err.Error(), "Falha na comunicação com a API")
	assert.Error(t, appErr.Unwrap())
}

func TestUpstreamErrorsAreNotDoubleWrapped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "tok", testLogger())
	require.NoError(t, err)

	_, err = client.FetchPatrimonio(ctx, "PAT-1")
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	// A NotFound must not be re-wrapped into an External.
	assert.NotContains(t, err.Error(), "Falha na comunicação")
}
