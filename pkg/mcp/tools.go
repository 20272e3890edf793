package mcp

import (
	"context"
	"log/slog"

	"github.com/neviim/mcppatrimonio/pkg/patrimonio"
)

// Tool names.
const (
	ToolInfo             = "info"
	ToolGetPatrimonio    = "get-patrimonio"
	ToolGetPorSetor      = "get-patrimonios-por-setor"
	ToolGetPorUsuario    = "get-patrimonios-por-usuario"
	ToolGetPorID         = "get-patrimonio-por-id"
	ToolUpdatePatrimonio = "update-patrimonio"
	ToolCreatePatrimonio = "create-patrimonio"
	ToolGetEstatisticas  = "get-estatisticas"
	ToolGetVersion       = "get-version"
)

// NewInfoTool returns the static server metadata tool.
func NewInfoTool() (tool *Tool) {
	tool = NewTool(
		ToolInfo,
		"Informações de Neviim",
		"Retorna alguns dados da homeLab Jads.",
		Schema{},
		func(_ context.Context, _ map[string]interface{}, _ *ExecutionContext) (data interface{}, err error) {
			data = map[string]interface{}{
				"name":        AppName,
				"version":     AppVersion,
				"description": AppDescription,
				"message":     "homeLab Jads, uma LLM sendo treinada com dados de automação residencial.",
			}
			return data, err
		},
	)
	return tool
}

// NewGetPatrimonioTool returns the fetch-by-number tool.
func NewGetPatrimonioTool() (tool *Tool) {
	tool = NewTool(
		ToolGetPatrimonio,
		"Obter Patrimônio",
		"Retorna informações de um patrimônio pelo número.",
		Schema{Fields: []Field{NumeroField()}},
		func(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonioClient(ec)
			if err != nil {
				return data, err
			}

			numero, _ := params["numero"].(string)
			data, err = client.FetchPatrimonio(ctx, numero)
			return data, err
		},
	)
	return tool
}

// NewGetPatrimoniosPorSetorTool returns the fetch-by-sector tool.
func NewGetPatrimoniosPorSetorTool() (tool *Tool) {
	tool = NewTool(
		ToolGetPorSetor,
		"Obter Patrimônios por Setor",
		"Retorna os patrimônios de um setor.",
		Schema{Fields: []Field{SetorField()}},
		func(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonioClient(ec)
			if err != nil {
				return data, err
			}

			setor, _ := params["setor"].(string)
			data, err = client.FetchPatrimoniosPorSetor(ctx, setor)
			return data, err
		},
	)
	return tool
}

// NewGetPatrimoniosPorUsuarioTool returns the fetch-by-user tool.
func NewGetPatrimoniosPorUsuarioTool() (tool *Tool) {
	tool = NewTool(
		ToolGetPorUsuario,
		"Obter Patrimônios por Usuário",
		"Retorna os patrimônios alocados a um usuário.",
		Schema{Fields: []Field{UsuarioField()}},
		func(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonioClient(ec)
			if err != nil {
				return data, err
			}

			usuario, _ := params["usuario"].(string)
			data, err = client.FetchPatrimoniosPorUsuario(ctx, usuario)
			return data, err
		},
	)
	return tool
}

// NewGetPatrimonioPorIDTool returns the fetch-by-id tool.
func NewGetPatrimonioPorIDTool() (tool *Tool) {
	tool = NewTool(
		ToolGetPorID,
		"Obter Patrimônio por ID",
		"Retorna informações de um patrimônio pelo ID.",
		Schema{Fields: []Field{IDField()}},
		func(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonioClient(ec)
			if err != nil {
				return data, err
			}

			id, _ := params["id"].(string)
			data, err = client.FetchPatrimonioPorID(ctx, id)
			return data, err
		},
	)
	return tool
}

// NewUpdatePatrimonioTool returns the update tool.
func NewUpdatePatrimonioTool() (tool *Tool) {
	tool = NewTool(
		ToolUpdatePatrimonio,
		"Atualizar Patrimônio",
		"Atualiza os dados de um patrimônio existente.",
		Schema{Fields: []Field{IDField(), DataField()}},
		func(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonioClient(ec)
			if err != nil {
				return data, err
			}

			id, _ := params["id"].(string)
			payload, _ := params["data"].(map[string]interface{})
			data, err = client.UpdatePatrimonio(ctx, id, payload)
			return data, err
		},
	)
	return tool
}

// NewCreatePatrimonioTool returns the create tool.
func NewCreatePatrimonioTool() (tool *Tool) {
	tool = NewTool(
		ToolCreatePatrimonio,
		"Criar Patrimônio",
		"Cadastra um novo patrimônio.",
		Schema{Fields: []Field{DataField()}},
		func(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonioClient(ec)
			if err != nil {
				return data, err
			}

			payload, _ := params["data"].(map[string]interface{})
			data, err = client.CreatePatrimonio(ctx, payload)
			return data, err
		},
	)
	return tool
}

// NewGetEstatisticasTool returns the statistics tool.
func NewGetEstatisticasTool() (tool *Tool) {
	tool = NewTool(
		ToolGetEstatisticas,
		"Obter Estatísticas",
		"Retorna estatísticas gerais dos patrimônios.",
		Schema{},
		func(ctx context.Context, _ map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonio.NewEstatisticasClient(ec.Request.BaseURL, ec.Request.Token, toolLogger(ec))
			if err != nil {
				return data, err
			}

			data, err = client.FetchEstatisticas(ctx)
			return data, err
		},
	)
	return tool
}

// NewGetVersionTool returns the upstream version tool. The version endpoint
// is public, so the client is built without a token.
func NewGetVersionTool() (tool *Tool) {
	tool = NewTool(
		ToolGetVersion,
		"Obter Versão da API",
		"Retorna a versão da API de patrimônios.",
		Schema{},
		func(ctx context.Context, _ map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
			client, err := patrimonio.NewVersionClient(ec.Request.BaseURL, toolLogger(ec))
			if err != nil {
				return data, err
			}

			data, err = client.FetchVersion(ctx)
			return data, err
		},
	)
	return tool
}

// AllTools returns the full tool set in registration order.
func AllTools() (tools []*Tool) {
	tools = []*Tool{
		NewInfoTool(),
		NewGetPatrimonioTool(),
		NewGetPatrimoniosPorSetorTool(),
		NewGetPatrimoniosPorUsuarioTool(),
		NewGetPatrimonioPorIDTool(),
		NewUpdatePatrimonioTool(),
		NewCreatePatrimonioTool(),
		NewGetEstatisticasTool(),
		NewGetVersionTool(),
	}
	return tools
}

// patrimonioClient builds the asset client bound to the invocation's request
// context.
func patrimonioClient(ec *ExecutionContext) (client *patrimonio.Client, err error) {
	client, err = patrimonio.NewClient(ec.Request.BaseURL, ec.Request.Token, toolLogger(ec))
	return client, err
}

// toolLogger resolves the logger for handler-constructed clients.
func toolLogger(ec *ExecutionContext) (logger *slog.Logger) {
	if ec != nil && ec.Server != nil && ec.Server.logger != nil {
		logger = ec.Server.logger
		return logger
	}

	logger = slog.Default()
	return logger
}
