package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger        *zap.Logger
	crmConfigured bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(logger *zap.Logger, crmConfigured bool) *HealthHandler {
	return &HealthHandler{
		logger:        logger,
		crmConfigured: crmConfigured,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	CRMConfigured bool      `json:"crm_configured"` // false while KeyCRM credentials are missing
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		Version:       Version,
		CRMConfigured: h.crmConfigured,
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
