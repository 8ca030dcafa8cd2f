package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"
	// DefaultHTTPTimeout 画像生成や Gemini API の応答を考慮したタイムアウト
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultImageReadTimeout = 15 * time.Second
	DefaultWorkspaceTTL     = 2 * time.Hour
	DefaultShutdownTimeout  = 15 * time.Second
	DefaultEnvFile          = ".env"
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL  string
	Port        string
	GeminiModel string // コンテンツパッケージ生成用モデル
	ImageModel  string // 画像生成用モデル
	TemplateDir string // HTMLテンプレートの格納ディレクトリ

	// Credential は API キーの解決結果です。未設定でもサーバーは起動します。
	Credential Credential

	HTTPTimeout      time.Duration
	ImageReadTimeout time.Duration // 参照画像アップロードの読み込み期限
	WorkspaceTTL     time.Duration // 操作が無いワークスペースを破棄するまでの時間
	ShutdownTimeout  time.Duration

	// SessionSecret はセッション Cookie の HMAC 署名用シークレットキーです。
	// 空の場合はプロセス起動ごとに生成されます。
	SessionSecret string

	SlackWebhookURL string
}

// LoadConfig は .env と環境変数から設定を読み込み、Config 構造体を生成します。
func LoadConfig() *Config {
	loadEnvFile(DefaultEnvFile)

	v := viper.New()
	v.AutomaticEnv()

	// 実行環境（Cloud Run, ko）に応じたパスの解決
	baseDir := "."
	if os.Getenv("KO_DATA_PATH") != "" || os.Getenv("K_SERVICE") != "" {
		baseDir = "/app"
	}

	v.SetDefault("SERVICE_URL", "http://localhost:8080")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GEMINI_MODEL", DefaultModel)
	v.SetDefault("IMAGE_MODEL", DefaultImageModel)
	v.SetDefault("TEMPLATE_DIR", path.Join(baseDir, "templates"))
	v.SetDefault("HTTP_TIMEOUT", DefaultHTTPTimeout)
	v.SetDefault("IMAGE_READ_TIMEOUT", DefaultImageReadTimeout)
	v.SetDefault("WORKSPACE_TTL", DefaultWorkspaceTTL)
	v.SetDefault("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout)

	return &Config{
		ServiceURL:       v.GetString("SERVICE_URL"),
		Port:             v.GetString("PORT"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		ImageModel:       v.GetString("IMAGE_MODEL"),
		TemplateDir:      v.GetString("TEMPLATE_DIR"),
		Credential:       ResolveCredential(os.LookupEnv),
		HTTPTimeout:      v.GetDuration("HTTP_TIMEOUT"),
		ImageReadTimeout: v.GetDuration("IMAGE_READ_TIMEOUT"),
		WorkspaceTTL:     v.GetDuration("WORKSPACE_TTL"),
		ShutdownTimeout:  v.GetDuration("SHUTDOWN_TIMEOUT"),
		SessionSecret:    v.GetString("SESSION_SECRET"),
		SlackWebhookURL:  v.GetString("SLACK_WEBHOOK_URL"),
	}
}

// loadEnvFile はローカル開発用の .env を読み込みます。既存の環境変数は上書きしません。
func loadEnvFile(name string) {
	if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load env file", "file", name, "error", err)
	}
}
