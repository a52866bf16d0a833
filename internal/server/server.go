// Пакет server — HTTP-сервер Registration Module: роутинг chi,
// middleware и graceful shutdown по сигналам SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ukftt/registration-module/internal/api/handlers"
	"github.com/ukftt/registration-module/internal/api/middleware"
	"github.com/ukftt/registration-module/internal/config"
)

// Server — HTTP-сервер Registration Module.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New создаёт HTTP-сервер с настроенным роутером.
func New(
	cfg *config.Config,
	api *handlers.APIHandler,
	uploads *handlers.UploadsHandler,
	verifier middleware.TokenVerifier,
	logger *slog.Logger,
) *Server {
	r := chi.NewRouter()

	// Порядок важен: метрики снаружи, логирование внутри
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RequestLogger(logger))

	// Служебные эндпоинты
	r.Get("/health/live", api.HealthLive)
	r.Get("/health/ready", api.HealthReady)
	r.Get("/metrics", api.GetMetrics)

	// Публичные эндпоинты
	r.Post("/api/registrations", api.CreateRegistration)
	r.Post("/api/registrations/tournaments/{tournament_id}/register", api.RegisterTournament)
	r.Get("/uploads/{filename}", uploads.ServeFile)

	// Админ-эндпоинты за Bearer credential
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(verifier, logger))
		r.Get("/registrations", api.ListRegistrations)
		r.Get("/registrations/{id}", api.GetRegistration)
		r.Put("/registrations/{id}/approve", api.ApproveRegistration)
		r.Put("/registrations/{id}/reject", api.RejectRegistration)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger.With(slog.String("component", "server")),
	}
}

// Run запускает HTTP-сервер и блокируется до получения SIGINT/SIGTERM,
// после чего выполняет graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка HTTP-сервера: %w", err)
	case sig := <-stop:
		s.logger.Info("Получен сигнал остановки", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
