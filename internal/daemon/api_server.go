package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"fitlot/internal/config"
	"fitlot/internal/lifecycle"
	"fitlot/internal/logging"
	"fitlot/internal/metrics"
	"fitlot/internal/store"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

type statusResponse struct {
	Running      bool      `json:"running"`
	SessionID    string    `json:"sessionId"`
	DatabasePath string    `json:"databasePath"`
	LockFilePath string    `json:"lockFilePath"`
	RefreshedAt  time.Time `json:"refreshedAt"`
}

type metricsResponse struct {
	RefreshedAt time.Time       `json:"refreshedAt"`
	Report      *metrics.Report `json:"report"`
}

type ordersResponse struct {
	Orders []*store.Order `json:"orders"`
}

type lotsResponse struct {
	Lots []*store.Lot `json:"lots"`
}

type lotResponse struct {
	Lot *store.Lot `json:"lot"`
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	token := strings.TrimSpace(cfg.Paths.APIToken)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/metrics", authMiddleware(token, srv.handleMetrics))
	mux.HandleFunc("/api/orders", authMiddleware(token, srv.handleOrders))
	mux.HandleFunc("/api/lots", authMiddleware(token, srv.handleLots))
	mux.HandleFunc("/api/lots/", authMiddleware(token, srv.handleLot))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// addr returns the bound address once the server is listening.
func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status()
	s.writeJSON(w, http.StatusOK, statusResponse{
		Running:      status.Running,
		SessionID:    status.SessionID,
		DatabasePath: status.DatabasePath,
		LockFilePath: status.LockFilePath,
		RefreshedAt:  status.RefreshedAt,
	})
}

func (s *apiServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	report, refreshed := s.daemon.Report()
	s.writeJSON(w, http.StatusOK, metricsResponse{RefreshedAt: refreshed, Report: report})
}

func (s *apiServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	orders, err := s.daemon.Orders(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

func (s *apiServer) handleLots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var steps []lifecycle.Step
	for _, value := range r.URL.Query()["step"] {
		step, ok := lifecycle.ParseStep(value)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown step %q", value))
			return
		}
		steps = append(steps, step)
	}
	lots, err := s.daemon.Lots(r.Context(), steps...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, lotsResponse{Lots: lots})
}

func (s *apiServer) handleLot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lotNumber := strings.TrimPrefix(r.URL.Path, "/api/lots/")
	if lotNumber == "" || strings.Contains(lotNumber, "/") {
		s.writeError(w, http.StatusNotFound, "lot not found")
		return
	}
	lot, err := s.daemon.Lot(r.Context(), lotNumber)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if lot == nil {
		s.writeError(w, http.StatusNotFound, "lot not found")
		return
	}
	s.writeJSON(w, http.StatusOK, lotResponse{Lot: lot})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return logging.NewComponentLogger(s.logger, "api-server")
	}
	return logging.NewNop()
}
