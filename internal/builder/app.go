package builder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"post-tools-web/internal/adapters"
	"post-tools-web/internal/app"
	"post-tools-web/internal/config"
	"post-tools-web/internal/studio"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// BuildContainer は外部サービスとの接続を準備し、依存関係を組み立てます。
// API キーが未設定でもエラーにはせず、生成リクエストごとに設定エラーを返します。
func BuildContainer(ctx context.Context, cfg *config.Config) (*app.Container, error) {
	// 1. 基盤クライアントの初期化
	httpClient := httpkit.New(cfg.HTTPTimeout)

	// 2. 生成 AI バックエンド
	if !cfg.Credential.Present {
		slog.WarnContext(ctx, "API key is not configured, generation requests will fail until one is set")
	} else {
		slog.InfoContext(ctx, "API key resolved", "source", cfg.Credential.Source)
	}
	gemini := adapters.NewGeminiAdapter(cfg.Credential, &http.Client{Timeout: cfg.HTTPTimeout})

	// 3. アダプターの初期化
	slack, err := adapters.NewSlackAdapter(httpClient, cfg.SlackWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}

	// 4. ワークフローの構築
	content, image := buildRunners(cfg, gemini)
	p := buildPipeline(content, image, slack)

	return &app.Container{
		Config:        cfg,
		Store:         studio.NewStore(cfg.WorkspaceTTL),
		Pipeline:      p,
		SlackNotifier: slack,
	}, nil
}
