package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smart-parking/internal/auth"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

func NewServer(port string, handler *Handler, authService *auth.Service) *Server {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(TracingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(authService))

			r.Get("/slots", handler.GetSlots)
			r.Post("/park", handler.ParkVehicle)
			r.Post("/scan", handler.ScanVehicle)
			r.Post("/exit", handler.ExitSlot)
			r.Post("/payment/confirm", handler.ConfirmPayment)
			r.Post("/payment/cancel", handler.CancelPayment)
			r.Get("/invoices/{id}", handler.GetInvoice)
			r.Get("/revenue", handler.GetRevenue)
			r.Get("/find/{registration}", handler.FindByRegistration)
		})
	})

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
	}
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}

func (s *Server) Router() http.Handler {
	return s.httpServer.Handler
}
