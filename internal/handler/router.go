package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nsxzhou/secretshare/backend/internal/handler/encrypt"
	"github.com/nsxzhou/secretshare/backend/internal/handler/sessions"
	"github.com/nsxzhou/secretshare/backend/internal/handler/ws"
	middlewarePkg "github.com/nsxzhou/secretshare/backend/internal/middleware"
	"github.com/nsxzhou/secretshare/backend/internal/service/hub"
	sessionservice "github.com/nsxzhou/secretshare/backend/internal/service/session"
	shareservice "github.com/nsxzhou/secretshare/backend/internal/service/share"
	"github.com/nsxzhou/secretshare/backend/pkg/utils"
)

// NewRouter wires HTTP and websocket routes to core services.
func NewRouter(shareSvc *shareservice.Service, sessionSvc *sessionservice.Service, h *hub.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	encryptHandler := encrypt.New(shareSvc, sessionSvc, h)
	sessionsHandler := sessions.New(sessionSvc)
	wsHandler := ws.New(h, sessionSvc)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Secret sharing API is running. Use /api/multi-encrypt or connect via websocket.",
		})
	})

	r.Route("/api", func(api chi.Router) {
		encryptHandler.RegisterRoutes(api)
		sessionsHandler.RegisterRoutes(api)

		api.Get("/active-users", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{"users": h.Active()})
		})
	})

	wsHandler.RegisterRoutes(r)

	return r
}
