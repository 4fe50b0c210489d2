package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

const (
	// AppName is reported by the root endpoint
	AppName = "TodoEveryday API"
	// AppVersion is reported by the root endpoint
	AppVersion = "1.0.0"
	// DocsPath is where the API description is served
	DocsPath = "/api/v1/openapi.yaml"
)

// RootHandler serves application info and liveness
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// RegisterRoutes registers the root and liveness routes
func (h *RootHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
}

// Root returns basic application info
func (h *RootHandler) Root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": AppName,
		"version": AppVersion,
		"docs":    DocsPath,
	})
}

// Health reports that the process is up
func (h *RootHandler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
