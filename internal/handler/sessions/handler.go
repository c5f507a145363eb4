package sessions

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionservice "github.com/nsxzhou/secretshare/backend/internal/service/session"
	"github.com/nsxzhou/secretshare/backend/pkg/utils"
)

// Handler exposes read access to sessions and the threshold-gated
// reconstruction operation.
type Handler struct {
	sessionSvc *sessionservice.Service
}

func New(sessionSvc *sessionservice.Service) *Handler {
	return &Handler{sessionSvc: sessionSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Post("/sessions/{sessionID}/reconstruct", h.handleReconstruct)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.sessionSvc.View(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	reconstructed, err := h.sessionSvc.Reconstruct(sessionID)
	if err != nil {
		var notReady *sessionservice.NotReadyError
		switch {
		case errors.As(err, &notReady):
			utils.RespondJSON(w, http.StatusConflict, map[string]any{
				"error":   err.Error(),
				"missing": notReady.Missing,
			})
		case errors.Is(err, sessionservice.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, "session not found")
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"reconstructed_message": reconstructed,
	})
}
