// Package main запускает HTTP-сервер сайта студии.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/hucreative-studio/internal/chat"
	"github.com/mmeshcher/hucreative-studio/internal/config"
	"github.com/mmeshcher/hucreative-studio/internal/handler"
	"github.com/mmeshcher/hucreative-studio/internal/middleware"
	"github.com/mmeshcher/hucreative-studio/internal/repository"
	"github.com/mmeshcher/hucreative-studio/internal/seed"
	"github.com/mmeshcher/hucreative-studio/internal/service"
	"github.com/mmeshcher/hucreative-studio/internal/session"
	"github.com/mmeshcher/hucreative-studio/internal/store"
)

const chatPruneInterval = time.Minute

// durableStorage объединяет операции, которые нужны хранилищу коллекций и флагу входа.
type durableStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func openStorage(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger) (durableStorage, error) {
	switch {
	case cfg.DatabaseURI != "":
		sugar.Infow("using postgres storage")
		return repository.NewPostgresRepository(cfg.DatabaseURI)
	case cfg.RedisAddr != "":
		sugar.Infow("using redis storage", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		return repository.NewRedisRepository(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix)
	default:
		sugar.Warn("no durable storage configured, data will be lost on restart")
		return repository.NewMemoryRepository(), nil
	}
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := openStorage(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}
	defer kv.Close()

	data, err := seed.Load()
	if err != nil {
		sugar.Fatalw("seed data error", "error", err.Error())
	}

	st, err := store.New(ctx, kv, store.Seed{
		Projects: data.Projects,
		Messages: data.Messages,
		Orders:   data.Orders,
	}, store.WithLogger(logger))
	if err != nil {
		sugar.Fatalw("store initialization error", "error", err.Error())
	}

	gate, err := session.New(ctx, kv, logger)
	if err != nil {
		sugar.Fatalw("session initialization error", "error", err.Error())
	}

	svc := service.NewService(st, gate, data.Plans)

	if cfg.SessionSecret == "" {
		sugar.Warn("SESSION_SECRET is not set, admin sessions will not survive a restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.SessionSecret, gate, middleware.WithLoginURL(cfg.AdminLoginURL()))

	g, ctx := errgroup.WithContext(ctx)

	var chatSvc handler.ChatService
	if cfg.ChatEnabled() {
		client, err := chat.NewClient(ctx, cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel)
		if err != nil {
			sugar.Fatalw("chat client initialization error", "error", err.Error())
		}
		assistant := chat.NewService(client, logger)
		chatSvc = assistant

		// Очистка простаивающих сессий диалога
		g.Go(func() error {
			assistant.StartPruning(ctx, chatPruneInterval, cfg.ChatSessionTTL)
			return nil
		})
	} else {
		sugar.Info("CHAT_API_KEY is not set, chat assistant disabled")
	}

	h := handler.NewHandler(svc, chatSvc, logger, authMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Content-Encoding"},
		ExposedHeaders:   []string{"X-Storage-Warning"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: corsHandler.Handler(h.SetupRouter()),
	}

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting studio server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
