package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nsxzhou/secretshare/backend/internal/config"
	"github.com/nsxzhou/secretshare/backend/internal/handler"
	"github.com/nsxzhou/secretshare/backend/internal/model/secret"
	"github.com/nsxzhou/secretshare/backend/internal/service/hub"
	sessionservice "github.com/nsxzhou/secretshare/backend/internal/service/session"
	shareservice "github.com/nsxzhou/secretshare/backend/internal/service/share"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	connHub := hub.New()
	sessionSvc := sessionservice.NewService(&hubNotifier{hub: connHub})
	sessionSvc.StartJanitor(ctx, cfg.Session.TTL, cfg.Session.SweepInterval)
	shareSvc := shareservice.NewService(cfg.Cipher)

	router := handler.NewRouter(shareSvc, sessionSvc, connHub)

	startServer(ctx, cfg.Server, router)
}

// hubNotifier adapts the connection hub to the coordinator's Notifier so the
// session service never imports the transport layer.
type hubNotifier struct {
	hub *hub.Hub
}

func (n *hubNotifier) Notify(participants []string, view secret.SessionView) {
	n.hub.Broadcast(participants, hub.NewEnvelope("session_update", view.ID, view))
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("secret-share backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
