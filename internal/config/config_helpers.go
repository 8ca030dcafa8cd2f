package config

import (
	"fmt"

	"github.com/shouni/netarmor/securenet"
)

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
// API キーは含みません。未設定の場合は生成時に ErrConfiguration として画面に表示します。
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	if cfg.Port == "" {
		return fmt.Errorf("configuration error: PORT is empty")
	}

	if cfg.GeminiModel == "" || cfg.ImageModel == "" {
		return fmt.Errorf("configuration error: GEMINI_MODEL and IMAGE_MODEL must not be empty")
	}

	if cfg.TemplateDir == "" {
		return fmt.Errorf("configuration error: TEMPLATE_DIR is empty")
	}

	if cfg.WorkspaceTTL <= 0 || cfg.ImageReadTimeout <= 0 {
		return fmt.Errorf("configuration error: WORKSPACE_TTL and IMAGE_READ_TIMEOUT must be positive")
	}

	// SessionSecret は HMAC キーとして最低限の長さを要求します。
	if cfg.SessionSecret != "" && len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET の長さが不正です (%d バイト)。32 バイト以上にしてください", len(cfg.SessionSecret))
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
