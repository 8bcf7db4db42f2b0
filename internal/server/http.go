package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"delve-server/internal/domain"
	"delve-server/internal/engine"
	"delve-server/internal/version"
	"delve-server/pkg/logger"
)

// Server is the HTTP front: the websocket gateway plus health, version
// and debug routes.
type Server struct {
	Service *engine.Service
	Addr    string
}

func New(service *engine.Service, addr string) *Server {
	return &Server{
		Service: service,
		Addr:    addr,
	}
}

// Handler assembles the route table. Split from Run so tests can mount
// it on httptest servers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	NewDebugHandler(s.Service).RegisterRoutes(mux)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Run serves until ctx ends, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("HTTP shutdown was not clean.")
		}
	}()

	logger.Log.Infof("Delve server listening on %s", s.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS upgrades the connection and binds it to the entity named by
// the player query parameter, defaulting to the main instance's
// adventurer. Unknown entities are refused after the upgrade so the
// peer hears the reason.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	actor := domain.EntityID(r.URL.Query().Get("player"))
	if actor == domain.Nobody {
		actor = s.Service.Main().PlayerID
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Websocket upgrade failed.")
		return
	}

	NewClient(s.Service, conn, actor).run()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version.Info())
}
