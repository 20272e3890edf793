package mcp

import (
	"log/slog"
)

// MCPResource describes a resource advertised under resources/list.
type MCPResource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceRegistry mirrors the tool registry for resources. Resources are
// advertised only; the metadata endpoints live on the HTTP gateway.
type ResourceRegistry struct {
	logger    *slog.Logger
	resources map[string]MCPResource
	order     []string
}

// NewResourceRegistry creates an empty resource registry.
func NewResourceRegistry(logger *slog.Logger) (registry *ResourceRegistry) {
	registry = &ResourceRegistry{
		logger:    logger,
		resources: map[string]MCPResource{},
	}
	return registry
}

// Register inserts a resource keyed by URI, overwriting with a warning on
// duplicate registration.
func (r *ResourceRegistry) Register(resource MCPResource) {
	_, exists := r.resources[resource.URI]
	if exists {
		r.logger.Warn("resource already registered, overwriting", slog.String("uri", resource.URI))
	} else {
		r.order = append(r.order, resource.URI)
	}

	r.resources[resource.URI] = resource
	r.logger.Info("resource registered", slog.String("uri", resource.URI))
}

// Get returns a resource by URI.
func (r *ResourceRegistry) Get(uri string) (resource MCPResource, exists bool) {
	resource, exists = r.resources[uri]
	return resource, exists
}

// Unregister removes a resource, reporting whether it was present.
func (r *ResourceRegistry) Unregister(uri string) (removed bool) {
	_, removed = r.resources[uri]
	if removed {
		delete(r.resources, uri)
		r.order = removeName(r.order, uri)
		r.logger.Info("resource unregistered", slog.String("uri", uri))
	}
	return removed
}

// List returns resources in registration order.
func (r *ResourceRegistry) List() (resources []MCPResource) {
	for _, uri := range r.order {
		resources = append(resources, r.resources[uri])
	}
	return resources
}

// Clear removes every resource. Used by tests only.
func (r *ResourceRegistry) Clear() {
	r.resources = map[string]MCPResource{}
	r.order = nil
}

// DefaultResources returns the static resources the server advertises.
func DefaultResources() (resources []MCPResource) {
	resources = []MCPResource{
		{
			URI:         "patrimonio://info",
			Name:        "Informações do servidor",
			Description: "Metadados do servidor MCP de patrimônio",
			MimeType:    "application/json",
		},
	}
	return resources
}
