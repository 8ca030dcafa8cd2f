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

	"post-tools-web/internal/builder"
	"post-tools-web/internal/config"
)

// readHeaderTimeout はリクエストヘッダーの受信期限です。ボディはハンドラーごとに期限を設定します。
const readHeaderTimeout = 10 * time.Second

// Run は、設定ロード、バリデーション、サーバーのライフサイクル管理を行います。
func Run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := config.ValidateEssentialConfig(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	container, err := builder.BuildContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build application container: %w", err)
	}
	defer func() {
		slog.Info("♻️ Closing application container...")
		container.Close()
	}()

	// 1. ハンドラーの組み立て
	h, err := builder.BuildHandlers(container)
	if err != nil {
		return fmt.Errorf("failed to build handlers: %w", err)
	}

	// 2. ルーターの構築
	router := NewRouter(h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// --- サーバー起動とシグナル待機 ---
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("🚀 Server starting...", "port", cfg.Port, "service_url", cfg.ServiceURL, "model", cfg.GeminiModel, "image_model", cfg.ImageModel)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-shutdown:
		slog.Info("⚠️ Starting graceful shutdown...")

		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// 生成中のリクエストは完了を待ちます
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed, forcing close", "error", err)

			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("could not stop server: shutdown error: %v, close error: %v", err, closeErr)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		slog.Info("✅ Server stopped cleanly")
	}

	return nil
}
