package api

import (
	"net/http"

	"github.com/folioapp/folio-server/internal/http/response"
)

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
