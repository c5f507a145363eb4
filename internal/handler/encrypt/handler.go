package encrypt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nsxzhou/secretshare/backend/internal/cipher"
	"github.com/nsxzhou/secretshare/backend/internal/model/secret"
	"github.com/nsxzhou/secretshare/backend/internal/service/hub"
	sessionservice "github.com/nsxzhou/secretshare/backend/internal/service/session"
	shareservice "github.com/nsxzhou/secretshare/backend/internal/service/share"
	"github.com/nsxzhou/secretshare/backend/pkg/utils"
)

// Handler serves the encryption boundary: multi-encrypt, the decrypt test
// endpoint, and stateless reconstruction.
type Handler struct {
	shareSvc   *shareservice.Service
	sessionSvc *sessionservice.Service
	hub        *hub.Hub
}

func New(shareSvc *shareservice.Service, sessionSvc *sessionservice.Service, h *hub.Hub) *Handler {
	return &Handler{
		shareSvc:   shareSvc,
		sessionSvc: sessionSvc,
		hub:        h,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/multi-encrypt", h.handleMultiEncrypt)
	r.Post("/decrypt", h.handleDecrypt)
	r.Post("/reconstruct", h.handleReconstruct)
}

func (h *Handler) handleMultiEncrypt(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		secret.SenderRequest
		// Older clients send "users" instead of "receivers".
		Users []secret.ReceiverSpec `json:"users"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := payload.SenderRequest
	if len(req.Receivers) == 0 {
		req.Receivers = payload.Users
	}

	result, err := h.shareSvc.BuildShares(req)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.sessionSvc.Declare(result.SessionID, result.Threshold)

	// Each receiver gets its share pushed (or queued until it connects),
	// including receivers whose cipher parameters were rejected, so their
	// UIs can show the failure.
	for _, res := range result.Results {
		h.hub.Unicast(res.User, hub.NewEnvelope("share", result.SessionID, res))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session_id":  result.SessionID,
		"total_users": len(result.Results),
		"results":     result.Results,
	})
}

func (h *Handler) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
		secret.ReceiverSpec
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decrypted, err := h.shareSvc.TestDecrypt(payload.Text, payload.ReceiverSpec)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cipher.ErrInvalidKey) || errors.Is(err, cipher.ErrUnsupportedCipher) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"decrypted": decrypted})
}

// handleReconstruct combines caller-supplied plaintexts without touching any
// session; the threshold-gated path lives under /sessions.
func (h *Handler) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Shares []string `json:"shares"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.Shares) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "no shares provided")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"reconstructed_message": sessionservice.Combine(payload.Shares),
	})
}
