package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		err             *Error
		wantKind        Kind
		wantStatus      int
		wantOperational bool
	}{
		{
			name:            "validation",
			err:             NewValidation("campo inválido"),
			wantKind:        KindValidation,
			wantStatus:      400,
			wantOperational: true,
		},
		{
			name:            "authentication",
			err:             NewAuthentication(""),
			wantKind:        KindAuthentication,
			wantStatus:      401,
			wantOperational: true,
		},
		{
			name:            "not_found",
			err:             NewNotFound(""),
			wantKind:        KindNotFound,
			wantStatus:      404,
			wantOperational: true,
		},
		{
			name:            "rate_limit",
			err:             NewRateLimit(""),
			wantKind:        KindRateLimit,
			wantStatus:      429,
			wantOperational: true,
		},
		{
			name:            "external",
			err:             NewExternal("api indisponível", nil),
			wantKind:        KindExternal,
			wantStatus:      502,
			wantOperational: true,
		},
		{
			name:            "internal",
			err:             NewInternal("panic recuperado"),
			wantKind:        KindInternal,
			wantStatus:      500,
			wantOperational: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantKind, tt.err.Kind)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantOperational, tt.err.IsOperational)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestDefaultMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Autenticação falhou", NewAuthentication("").Error())
	assert.Equal(t, "Recurso não encontrado", NewNotFound("").Error())
	assert.Equal(t, "Limite de requisições excedido", NewRateLimit("").Error())
}

func TestExternalWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewExternal("Falha na comunicação com a API: connection refused", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestAsThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := NewNotFound("Recurso não encontrado: http://x.com/api/v1/patrimonios/9")
	wrapped := fmt.Errorf("fetching: %w", inner)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Equal(t, 404, appErr.StatusCode)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsOperational(t *testing.T) {
	t.Parallel()

	assert.True(t, IsOperational(NewExternal("x", nil)))
	assert.False(t, IsOperational(NewInternal("x")))
	assert.False(t, IsOperational(errors.New("plain")))
}
