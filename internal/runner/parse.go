package runner

import (
	"encoding/json"
	"fmt"
	"strings"

	"post-tools-web/internal/domain"
)

// parseContentPackage は応答テキストを ContentPackage に変換します。
// 必須フィールドの欠落や空の見出しは ErrParse として扱い、補完はしません。
func parseContentPackage(text string) (*domain.ContentPackage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %w", domain.ErrParse, err)
	}

	var missing []string
	for _, field := range requiredFields {
		v, ok := raw[field]
		if !ok || string(v) == "null" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", domain.ErrParse, strings.Join(missing, ", "))
	}

	var pkg domain.ContentPackage
	if err := json.Unmarshal([]byte(text), &pkg); err != nil {
		return nil, fmt.Errorf("%w: unexpected field shape: %w", domain.ErrParse, err)
	}

	var empty []string
	if strings.TrimSpace(pkg.Headline) == "" {
		empty = append(empty, "headline")
	}
	if strings.TrimSpace(pkg.CTA) == "" {
		empty = append(empty, "cta")
	}
	if strings.TrimSpace(pkg.ImagePrompt) == "" {
		empty = append(empty, "image_prompt")
	}
	if len(empty) > 0 {
		return nil, fmt.Errorf("%w: empty required fields: %s", domain.ErrParse, strings.Join(empty, ", "))
	}

	return &pkg, nil
}
