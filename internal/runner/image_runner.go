package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"post-tools-web/internal/adapters"
	"post-tools-web/internal/domain"

	"google.golang.org/genai"
)

// ImageRunner はプロンプトから画像を1枚生成するインターフェースです。
// 呼び出しごとに独立した画像が生成され、過去の結果は保持しません。
type ImageRunner interface {
	Run(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}

// GeminiImageRunner は Gemini の画像生成モデルを利用した ImageRunner です。
type GeminiImageRunner struct {
	provider adapters.ModelProvider
	model    string
}

func NewGeminiImageRunner(provider adapters.ModelProvider, model string) *GeminiImageRunner {
	return &GeminiImageRunner{
		provider: provider,
		model:    model,
	}
}

// Run はプロンプトを送信し、最初の候補に含まれる最初のインライン画像を返します。
func (r *GeminiImageRunner) Run(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: image prompt is empty", domain.ErrInvalidInput)
	}

	model, err := r.provider.Model(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Generating image", "model", r.model, "prompt_length", len(prompt))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := model.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Gemini image API error", "model", r.model, "error", err)
		return nil, fmt.Errorf("%w: image generation failed: %w", domain.ErrUpstream, err)
	}

	img := firstInlineImage(resp)
	if img == nil {
		return nil, fmt.Errorf("%w: please try again", domain.ErrNoImage)
	}

	slog.InfoContext(ctx, "Image generated", "mime_type", img.MIMEType, "bytes", len(img.Data))
	return img, nil
}

// firstInlineImage は最初の候補からインライン画像パートを探します。見つからなければ nil です。
func firstInlineImage(resp *genai.GenerateContentResponse) *domain.GeneratedImage {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return &domain.GeneratedImage{
			Data:     part.InlineData.Data,
			MIMEType: part.InlineData.MIMEType,
		}
	}
	return nil
}
