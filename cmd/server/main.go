package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whatsapp-wrapped/internal/adapters/archive"
	"whatsapp-wrapped/internal/adapters/parser"
	"whatsapp-wrapped/internal/cache"
	"whatsapp-wrapped/internal/core/services"
	applog "whatsapp-wrapped/internal/log"
	"whatsapp-wrapped/internal/pkg/config"
	"whatsapp-wrapped/internal/server"
	"whatsapp-wrapped/internal/server/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	// 1. Загрузка и валидация конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализация логгера
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := applog.NewMaskedLogger(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// 3. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Инициализация зависимостей
	taskStore := server.NewTaskStore()
	itemStore := server.NewItemStore()
	cacheStore := cache.NewCacheStore()
	archiveSvc := archive.NewZipArchive()
	parserSvc := parser.NewTextParser()
	statsSvc := services.NewStatsService()
	processor := usecase.NewProcessChatUseCase(cfg, archiveSvc, parserSvc, statsSvc, cacheStore)

	// 5. Создание HTTP-сервера
	srv, err := server.New(cfg, processor, taskStore, itemStore, cacheStore)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// 6. Запуск сервера и graceful shutdown
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		slog.Info("Starting server", "addr", cfg.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Signal received, shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	<-serverDone
	slog.Info("HTTP server stopped")

	slog.Info("Application exited gracefully")
	return nil
}
