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

// ContentRunner はユーザー入力からコンテンツパッケージを生成するインターフェースです。
// 生成 AI は非決定的なため、同じ入力でも同じ結果は保証されません。
type ContentRunner interface {
	Run(ctx context.Context, in domain.UserInput) (*domain.ContentPackage, error)
}

// GeminiContentRunner は Gemini のスキーマ制約付き JSON 出力を利用した ContentRunner です。
type GeminiContentRunner struct {
	provider adapters.ModelProvider
	model    string
}

// NewGeminiContentRunner は ModelProvider と使用するモデル名を注入して初期化します。
func NewGeminiContentRunner(provider adapters.ModelProvider, model string) *GeminiContentRunner {
	return &GeminiContentRunner{
		provider: provider,
		model:    model,
	}
}

// Run は入力を検証し、テキストと任意の参照画像を1リクエストにまとめて送信します。
func (r *GeminiContentRunner) Run(ctx context.Context, in domain.UserInput) (*domain.ContentPackage, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	model, err := r.provider.Model(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Generating content package",
		"model", r.model,
		"format", in.Format,
		"has_image", in.HasImage(),
	)

	resp, err := model.GenerateContent(ctx, r.model, buildContentRequest(in), contentConfig())
	if err != nil {
		slog.ErrorContext(ctx, "Gemini API error", "model", r.model, "error", err)
		return nil, fmt.Errorf("%w: content generation failed: %w", domain.ErrUpstream, err)
	}

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no response text received", domain.ErrUpstream)
	}

	pkg, err := parseContentPackage(text)
	if err != nil {
		slog.WarnContext(ctx, "Failed to parse content package", "error", err, "length", len(text))
		return nil, err
	}
	return pkg, nil
}

// buildContentRequest はテキストパートと、添付がある場合のみインライン画像パートを組み立てます。
func buildContentRequest(in domain.UserInput) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(buildContentPrompt(in))}
	if in.HasImage() {
		parts = append(parts, genai.NewPartFromBytes(in.Image.Data, in.Image.MIMEType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func contentConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    contentPackageSchema(),
	}
}
