package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"order-events/internal/eventbus"
	"order-events/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Server exposes the producer over plain HTTP for local runs
type Server struct {
	publisher *service.OrderPublisher
	health    eventbus.HealthChecker
	logger    *logrus.Logger
	router    chi.Router
}

// NewServer builds the router. health may be nil.
func NewServer(publisher *service.OrderPublisher, health eventbus.HealthChecker, logger *logrus.Logger) *Server {
	s := &Server{
		publisher: publisher,
		health:    health,
		logger:    logger,
		router:    chi.NewRouter(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Post("/orders", s.createOrder)
	s.router.Get("/healthz", s.healthz)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.WithField("request_id", middleware.GetReqID(r.Context())).
			WithError(err).Error("❌ Error reading request body")
		writeResponse(w, service.FailedResponse())
		return
	}

	writeResponse(w, s.publisher.CreateOrder(r.Context(), string(body)))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.HealthCheck(ctx); err != nil {
			s.logger.WithError(err).Warn("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeResponse(w http.ResponseWriter, resp service.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
