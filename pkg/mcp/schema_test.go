package mcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateNumeroField(t *testing.T) {
	t.Parallel()

	schema := Schema{Fields: []Field{NumeroField()}}

	tests := []struct {
		name        string
		raw         interface{}
		wantValid   bool
		wantMessage string
	}{
		{
			name:      "valid numero",
			raw:       map[string]interface{}{"numero": "PAT-001"},
			wantValid: true,
		},
		{
			name:      "valid with underscore",
			raw:       map[string]interface{}{"numero": "ABC_123"},
			wantValid: true,
		},
		{
			name:        "missing numero",
			raw:         map[string]interface{}{},
			wantValid:   false,
			wantMessage: "Número do patrimônio é obrigatório",
		},
		{
			name:        "nil params",
			raw:         nil,
			wantValid:   false,
			wantMessage: "Número do patrimônio é obrigatório",
		},
		{
			name:        "empty numero",
			raw:         map[string]interface{}{"numero": ""},
			wantValid:   false,
			wantMessage: "Número do patrimônio é obrigatório",
		},
		{
			name:        "numero with slash",
			raw:         map[string]interface{}{"numero": "ABC/123"},
			wantValid:   false,
			wantMessage: "Número do patrimônio inválido",
		},
		{
			name:        "numero with spaces",
			raw:         map[string]interface{}{"numero": "ABC 123"},
			wantValid:   false,
			wantMessage: "Número do patrimônio inválido",
		},
		{
			name:        "numero wrong type",
			raw:         map[string]interface{}{"numero": 42.0},
			wantValid:   false,
			wantMessage: "deve ser uma string",
		},
		{
			name:        "params not an object",
			raw:         "not-an-object",
			wantValid:   false,
			wantMessage: "Parâmetros devem ser um objeto",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Validate(schema, tt.raw)

			require.Equal(t, tt.wantValid, result.IsValid)

			if tt.wantValid {
				require.Empty(t, result.Errors)
				return
			}

			require.NotEmpty(t, result.Errors)
			require.Equal(t, tt.wantMessage, result.Errors[0].Message)
		})
	}
}

func TestValidateStripsUnknownKeys(t *testing.T) {
	t.Parallel()

	schema := Schema{Fields: []Field{SetorField()}}

	result := Validate(schema, map[string]interface{}{
		"setor":      "TI",
		"unexpected": "value",
	})

	require.True(t, result.IsValid)
	require.Equal(t, map[string]interface{}{"setor": "TI"}, result.Data)
}

func TestValidateDataField(t *testing.T) {
	t.Parallel()

	schema := Schema{Fields: []Field{DataField()}}

	tests := []struct {
		name        string
		raw         interface{}
		wantValid   bool
		wantMessage string
	}{
		{
			name:      "valid payload",
			raw:       map[string]interface{}{"data": map[string]interface{}{"setor": "TI"}},
			wantValid: true,
		},
		{
			name:        "empty payload",
			raw:         map[string]interface{}{"data": map[string]interface{}{}},
			wantValid:   false,
			wantMessage: "Dados do patrimônio não podem estar vazios",
		},
		{
			name:        "payload wrong type",
			raw:         map[string]interface{}{"data": "texto"},
			wantValid:   false,
			wantMessage: "deve ser um objeto",
		},
		{
			name:        "payload missing",
			raw:         map[string]interface{}{},
			wantValid:   false,
			wantMessage: "Dados do patrimônio são obrigatórios",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Validate(schema, tt.raw)

			require.Equal(t, tt.wantValid, result.IsValid)
			if !tt.wantValid {
				require.Equal(t, tt.wantMessage, result.Errors[0].Message)
			}
		})
	}
}

func TestValidateCollectsAllFieldErrors(t *testing.T) {
	t.Parallel()

	schema := Schema{Fields: []Field{IDField(), DataField()}}

	result := Validate(schema, map[string]interface{}{})

	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	require.Equal(t, "id", result.Errors[0].Field)
	require.Equal(t, "data", result.Errors[1].Field)
}

func TestIsValidID(t *testing.T) {
	t.Parallel()

	require.True(t, IsValidID("6f1e0dc0-6d6c-4cb4-9f6e-2f5efabcd012"))
	require.True(t, IsValidID("6F1E0DC0-6D6C-4CB4-9F6E-2F5EFABCD012"))
	require.True(t, IsValidID("qualquer-id"))
	require.False(t, IsValidID(""))
	require.False(t, IsValidID(string(make([]byte, 101))))
}

func TestJSONSchemaShape(t *testing.T) {
	t.Parallel()

	schema := Schema{Fields: []Field{NumeroField()}}
	wire := schema.JSONSchema()

	require.Equal(t, "object", wire["type"])

	properties, ok := wire["properties"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, properties, "numero")

	require.Equal(t, []string{"numero"}, wire["required"])
}

func TestJSONSchemaNoFields(t *testing.T) {
	t.Parallel()

	wire := Schema{}.JSONSchema()

	require.Equal(t, "object", wire["type"])
	require.NotContains(t, wire, "required")
}
