package metrics

import "github.com/prometheus/client_golang/prometheus"

// Label constants.
const (
	Tool     = "tool"
	Status   = "status"
	Resource = "resource"
	Result   = "result"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	//nolint:gochecknoglobals // This is how the prometheus magic works.
	// ToolExecutionsTotal Total number of MCP tool executions.
	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_executions_total",
			Help: "Total number of MCP tool executions",
		},
		[]string{Tool, Status},
	)

	//nolint:gochecknoglobals // This is how the prometheus magic works.
	// UpstreamRequestsTotal Total number of requests to the patrimônio API.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests to the patrimônio API",
		},
		[]string{Resource, Status},
	)

	//nolint:gochecknoglobals // This is how the prometheus magic works.
	// AuthAttemptsTotal Total number of HTTP gate authentication attempts.
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of HTTP gate authentication attempts",
		},
		[]string{Result},
	)

	//nolint:gochecknoglobals // This is how the prometheus magic works.
	// SessionsCreatedTotal Total number of MCP streaming sessions created.
	SessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mcp_sessions_created_total",
			Help: "Total number of MCP streaming sessions created",
		},
	)

	//nolint:gochecknoglobals // This is how the prometheus magic works.
	// ActiveSessions Number of currently open MCP streaming sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcp_sessions_active",
			Help: "Number of currently open MCP streaming sessions",
		},
	)
)

// Init registers all metrics with the default prometheus registry.
func Init() {
	prometheus.MustRegister(
		ToolExecutionsTotal,
		UpstreamRequestsTotal,
		AuthAttemptsTotal,
		SessionsCreatedTotal,
		ActiveSessions,
	)
}
