package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"post-tools-web/internal/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-notifier/pkg/factory"
	"github.com/shouni/go-notifier/pkg/slack"
)

const (
	CategoryImageApproved = "image-approved"
	CategoryErrorReport   = "error-report"
)

// --- インターフェース定義 ---

type SlackNotifier interface {
	Notify(ctx context.Context, req domain.NotificationRequest) error
	NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error
}

// --- 具象アダプター ---

type SlackAdapter struct {
	webhookURL  string
	slackClient *slack.Client
}

// NewSlackAdapter は webhookURL が空の場合、通知をスキップするアダプターを返します。
func NewSlackAdapter(httpClient httpkit.ClientInterface, webhookURL string) (*SlackAdapter, error) {
	if webhookURL == "" {
		return &SlackAdapter{webhookURL: webhookURL}, nil
	}
	client, err := factory.GetSlackClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("Slackクライアントの初期化に失敗しました: %w", err)
	}

	return &SlackAdapter{
		webhookURL:  webhookURL,
		slackClient: client,
	}, nil
}

// Notify は画像が承認されたことを Slack に通知します。
func (a *SlackAdapter) Notify(ctx context.Context, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.InfoContext(ctx, "Slackクライアントが初期化されていないため、通知をスキップします。", "category", req.OutputCategory)
		return nil
	}

	title := "✅ ビジュアルが承認されました"
	content := a.buildSlackContent(req)

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへの投稿に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Slack に承認通知を送信しました。", "format", req.Format)
	return nil
}

// NotifyError はコンテンツ生成の失敗を Slack に通知します。
func (a *SlackAdapter) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.InfoContext(ctx, "Slackクライアントが初期化されていないため、エラー通知をスキップします。", "error", errDetail)
		return nil
	}

	title := "❌ コンテンツ生成中にエラーが発生しました"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*ジャンル:* `%s`\n", valueOrNA(req.Niche)))
	sb.WriteString(fmt.Sprintf("*フォーマット:* `%s`\n\n", valueOrNA(req.Format)))

	// エラー詳細をコードブロックで囲み、可読性を確保します。
	sb.WriteString("*エラー内容:*\n")
	sb.WriteString(fmt.Sprintf("```\n%v\n```\n", errDetail))

	if err := a.slackClient.SendTextWithHeader(ctx, title, sb.String()); err != nil {
		return fmt.Errorf("Slackへのエラー通知に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Slack にエラー通知を送信しました。", "error", errDetail)
	return nil
}

// buildSlackContent は承認通知のメッセージ本文を生成します。
func (a *SlackAdapter) buildSlackContent(req domain.NotificationRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**見出し:** `%s`\n", valueOrNA(req.Headline)))
	sb.WriteString(fmt.Sprintf("**ジャンル:** `%s`\n", valueOrNA(req.Niche)))
	sb.WriteString(fmt.Sprintf("**フォーマット:** `%s`\n", valueOrNA(req.Format)))
	if req.MediaType != "" {
		sb.WriteString(fmt.Sprintf("🖼️ **画像形式:** `%s`\n", req.MediaType))
	}
	return sb.String()
}

func valueOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.CategoryNotAvailable
	}
	return s
}
