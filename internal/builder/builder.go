package builder

import (
	"post-tools-web/internal/adapters"
	"post-tools-web/internal/config"
	"post-tools-web/internal/runner"
)

// buildRunners はコンテンツパッケージと画像の各 Runner を構築します。
// 両者は同じ genai クライアントを共有します。
func buildRunners(cfg *config.Config, provider adapters.ModelProvider) (runner.ContentRunner, runner.ImageRunner) {
	content := runner.NewGeminiContentRunner(provider, cfg.GeminiModel)
	image := runner.NewGeminiImageRunner(provider, cfg.ImageModel)
	return content, image
}
