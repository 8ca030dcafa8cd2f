package builder

import (
	"post-tools-web/internal/adapters"
	"post-tools-web/internal/pipeline"
	"post-tools-web/internal/runner"
)

// buildPipeline は各 Runner と通知先から新しいパイプラインを初期化して返します。
func buildPipeline(content runner.ContentRunner, image runner.ImageRunner, slack adapters.SlackNotifier) pipeline.Pipeline {
	return pipeline.NewStudioPipeline(content, image, slack)
}
