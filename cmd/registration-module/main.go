// Registration Module — сервис приёма регистраций клуба:
// публичная подача заявок (с фотографией) и админ-панель
// для просмотра, CSV-экспорта и модерации.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ukftt/registration-module/internal/api/handlers"
	"github.com/ukftt/registration-module/internal/api/middleware"
	"github.com/ukftt/registration-module/internal/config"
	"github.com/ukftt/registration-module/internal/database"
	"github.com/ukftt/registration-module/internal/repository"
	"github.com/ukftt/registration-module/internal/server"
	"github.com/ukftt/registration-module/internal/service"
	"github.com/ukftt/registration-module/internal/storage/photostore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "registration-module: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env — только для локальной разработки, отсутствие не ошибка
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	logger := config.SetupLogger(cfg)
	logger.Info("Registration Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// Миграции применяются до открытия пула
	if err := database.Migrate(cfg, logger); err != nil {
		return fmt.Errorf("ошибка миграций: %w", err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	defer pool.Close()

	photos, err := photostore.New(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("ошибка инициализации хранилища фотографий: %w", err)
	}

	repo := repository.NewRegistrationRepository(pool)

	registrationService := service.NewRegistrationService(repo, photos, cfg.MaxUploadBytes, logger)
	adminService := service.NewAdminService(repo, logger)

	health := handlers.NewHealthHandler(logger)
	health.RegisterChecker("postgres", database.NewReadinessChecker(pool))
	health.RegisterChecker("uploads", photos)

	api := handlers.NewAPIHandler(health, registrationService, adminService, cfg.MaxUploadBytes, logger)
	uploads := handlers.NewUploadsHandler(photos)
	verifier := middleware.NewStaticTokenVerifier(cfg.AdminAPIKey)

	srv := server.New(cfg, api, uploads, verifier, logger)
	return srv.Run()
}
