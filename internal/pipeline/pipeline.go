package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"post-tools-web/internal/adapters"
	"post-tools-web/internal/domain"
	"post-tools-web/internal/runner"
	"post-tools-web/internal/studio"
)

// Pipeline はワークスペースに対する生成操作をまとめたものです。
type Pipeline interface {
	SubmitContent(ctx context.Context, ws *studio.Workspace, in domain.UserInput) error
	GenerateImage(ctx context.Context, ws *studio.Workspace, action studio.ImageAction, prompt string) error
	Approve(ctx context.Context, ws *studio.Workspace) (*domain.GeneratedImage, error)

	GenerateContentPackage(ctx context.Context, in domain.UserInput) (*domain.ContentPackage, error)
	GenerateVisual(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}

// StudioPipeline はコンテンツ生成と画像生成を実行し、結果をワークスペースへ反映します。
// バックエンド呼び出しの間ワークスペースのロックは保持しません。
type StudioPipeline struct {
	content runner.ContentRunner
	image   runner.ImageRunner
	slack   adapters.SlackNotifier
}

func NewStudioPipeline(content runner.ContentRunner, image runner.ImageRunner, slack adapters.SlackNotifier) *StudioPipeline {
	return &StudioPipeline{
		content: content,
		image:   image,
		slack:   slack,
	}
}

// SubmitContent はフォームの入力からコンテンツパッケージを生成します。
// ワークスペースに参照画像があれば添付します。処理中の送信がある場合は studio.ErrInProgress を返し、状態は変わりません。
func (p *StudioPipeline) SubmitContent(ctx context.Context, ws *studio.Workspace, in domain.UserInput) (err error) {
	if in.Image == nil {
		in.Image = ws.Reference()
	}
	if err := in.Validate(); err != nil {
		return err
	}

	ticket, err := ws.BeginContent()
	if err != nil {
		return err
	}

	start := time.Now()
	slog.InfoContext(ctx, "Content generation started",
		"workspace_id", ws.ID,
		"niche", in.Niche,
		"format", in.Format,
		"has_image", in.HasImage(),
	)

	pkg, err := p.content.Run(ctx, in)
	if !ws.CompleteContent(ticket, in, pkg, err) {
		slog.WarnContext(ctx, "Discarded stale content result", "workspace_id", ws.ID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "Content generation failed", "workspace_id", ws.ID, "error", err)
		p.notifyError(ctx, in, err)
		return err
	}

	slog.InfoContext(ctx, "Content generation completed",
		"workspace_id", ws.ID,
		"headline", pkg.Headline,
		"elapsed", time.Since(start),
	)
	return nil
}

// GenerateImage は action に応じた遷移で画像を生成します。
// 失敗は画像状態のエラーとして記録され、戻り値でも返します。
func (p *StudioPipeline) GenerateImage(ctx context.Context, ws *studio.Workspace, action studio.ImageAction, prompt string) error {
	ticket, resolved, err := ws.BeginImage(action, prompt)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Image generation started", "workspace_id", ws.ID, "action", action.String())

	img, err := p.image.Run(ctx, resolved)
	if !ws.CompleteImage(ticket, img, err) {
		slog.WarnContext(ctx, "Discarded stale image result", "workspace_id", ws.ID, "action", action.String())
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "Image generation failed", "workspace_id", ws.ID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "Image generation completed", "workspace_id", ws.ID, "media_type", img.MIMEType)
	return nil
}

// Approve は Ready の画像を返し、承認を通知します。保存自体はブラウザ側で行います。
// 通知の失敗は承認の成否に影響しません。
func (p *StudioPipeline) Approve(ctx context.Context, ws *studio.Workspace) (*domain.GeneratedImage, error) {
	img, err := ws.ApprovedImage()
	if err != nil {
		return nil, err
	}

	req := buildApprovalNotification(ws.Snapshot(), img)
	if notifyErr := p.slack.Notify(ctx, req); notifyErr != nil {
		slog.ErrorContext(ctx, "Notification failed", "error", notifyErr)
	}
	return img, nil
}

// GenerateContentPackage はワークスペースを介さずにコンテンツパッケージを生成します。
func (p *StudioPipeline) GenerateContentPackage(ctx context.Context, in domain.UserInput) (*domain.ContentPackage, error) {
	pkg, err := p.content.Run(ctx, in)
	if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
		p.notifyError(ctx, in, err)
	}
	return pkg, err
}

// GenerateVisual はワークスペースを介さずに画像を1枚生成します。
func (p *StudioPipeline) GenerateVisual(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	img, err := p.image.Run(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	return img, nil
}
