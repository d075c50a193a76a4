package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/http/response"
)

// handleGetProfile returns the authenticated owner's profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	profile, err := s.accountService.GetProfile(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if profile == nil {
		response.NotFound(w, "Profile not found", s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleSaveProfile stores the authenticated owner's profile.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var profile domain.Profile
	if err := json.UnmarshalRead(r.Body, &profile); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.accountService.SaveProfile(ctx, userID, &profile); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleDeleteAccount removes all of the authenticated owner's data.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if err := s.accountService.DeleteAccount(ctx, userID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
