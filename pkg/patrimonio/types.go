package patrimonio

// Patrimonio is an asset record as returned by the upstream API. The upstream
// shape is passed through untouched, so unknown fields are preserved.
type Patrimonio map[string]interface{}

// Estatisticas holds the aggregate asset statistics.
type Estatisticas struct {
	Total              int            `json:"total"`
	PorSetor           map[string]int `json:"porSetor"`
	PorTipoEquipamento map[string]int `json:"porTipoEquipamento"`
	PorLocacao         map[string]int `json:"porLocacao"`
	ValorTotal         *float64       `json:"valorTotal,omitempty"`
}

// VersionInfo holds the upstream API version information.
type VersionInfo struct {
	Version        string `json:"version"`
	BuildTimestamp string `json:"buildTimestamp"`
	Environment    string `json:"environment,omitempty"`
}
