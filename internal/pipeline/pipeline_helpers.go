package pipeline

import (
	"context"
	"log/slog"

	"post-tools-web/internal/adapters"
	"post-tools-web/internal/domain"
	"post-tools-web/internal/studio"
)

// notifyError はエラー発生時に SlackAdapter を通じて通知を行います。
func (p *StudioPipeline) notifyError(ctx context.Context, in domain.UserInput, opErr error) {
	req := domain.NotificationRequest{
		Niche:          in.Niche,
		Format:         string(in.Format),
		OutputCategory: adapters.CategoryErrorReport,
	}

	if err := p.slack.NotifyError(ctx, opErr, req); err != nil {
		slog.ErrorContext(ctx, "Failed to send error notification", "error", err)
	}
}

func buildApprovalNotification(v studio.View, img *domain.GeneratedImage) domain.NotificationRequest {
	req := domain.NotificationRequest{
		OutputCategory: adapters.CategoryImageApproved,
		MediaType:      img.MIMEType,
	}
	if v.Package != nil {
		req.Headline = v.Package.Headline
	}
	if v.Input != nil {
		req.Niche = v.Input.Niche
		req.Format = string(v.Input.Format)
	}
	return req
}
