package runner

import (
	"fmt"

	"post-tools-web/internal/domain"
)

// buildContentPrompt はユーザー入力を埋め込んだ指示テキストを組み立てます。
func buildContentPrompt(in domain.UserInput) string {
	prompt := fmt.Sprintf(`GENERATE CONTENT PACKAGE:
Niche: %s
Format: %s
Topic/Text: %s
Style: %s
`, in.Niche, in.Format, in.Topic, in.Style)

	if in.HasImage() {
		prompt += "\nPlease analyze the attached image for visual direction (colors, mood, brand energy).\n"
	}
	return prompt
}
