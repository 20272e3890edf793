package patrimonio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neviim/mcppatrimonio/pkg/apperr"
)

func TestFetchEstatisticas(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name           string
		serverStatus   int
		serverResponse string
		expectErr      bool
		wantTotal      int
	}{
		{
			name:           "success",
			serverStatus:   http.StatusOK,
			serverResponse: `{"total":42,"porSetor":{"TI":30,"RH":12},"porTipoEquipamento":{},"porLocacao":{}}`,
			wantTotal:      42,
		},
		{
			name:           "server_error",
			serverStatus:   http.StatusBadGateway,
			serverResponse: `upstream down`,
			expectErr:      true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/estatisticas/", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

				w.WriteHeader(tt.serverStatus)
				_, _ = w.Write([]byte(tt.serverResponse))
			}))
			defer server.Close()

			client, err := NewEstatisticasClient(server.URL, "tok", testLogger())
			require.NoError(t, err)

			result, err := client.FetchEstatisticas(ctx)

			if tt.expectErr {
				require.Error(t, err)
				appErr, ok := apperr.As(err)
				require.True(t, ok)
				assert.Equal(t, apperr.KindExternal, appErr.Kind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, 30, result.PorSetor["TI"])
		})
	}
}

func TestFetchVersionIsUnauthenticated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version", r.URL.Path)
		// The version endpoint is public: no Authorization header is sent.
		assert.Empty(t, r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"version":"1.4.2","buildTimestamp":"2025-07-01T10:00:00Z"}`))
	}))
	defer server.Close()

	client, err := NewVersionClient(server.URL, testLogger())
	require.NoError(t, err)

	info, err := client.FetchVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", info.Version)
	assert.Equal(t, "2025-07-01T10:00:00Z", info.BuildTimestamp)
}
